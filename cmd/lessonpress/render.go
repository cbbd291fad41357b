package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/render"
	"github.com/jackzampolin/lessonpress/internal/svcctx"
	"github.com/jackzampolin/lessonpress/internal/workflow"
)

var (
	renderSubject string
	renderClass   string
	renderMode    string
	renderOutput  string
	renderForce   bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render stored lessons to PDF",
	Long: `Render the stored lessons for a subject and class to a PDF.

Pupil mode prints the lesson material and exercises. Teacher mode adds
the answers and teaching notes.

The PDF is written to ~/.lessonpress/exports/ unless -o is given.

Examples:
  lessonpress render --subject Mathematics --class PRIMARY_3
  lessonpress render --subject Mathematics --class PRIMARY_3 --mode teacher -o maths.pdf
  lessonpress render init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := loadConfig(h, logger)
		if err != nil {
			return err
		}

		svcs, err := svcctx.Build(ctx, mgr.Get(), h, logger)
		if err != nil {
			return err
		}
		defer svcs.Close()

		pdf, err := svcs.Workflow.Render(ctx, workflow.RenderRequest{
			Subject: renderSubject,
			Class:   renderClass,
			Mode:    renderMode,
		})
		if err != nil {
			return err
		}

		path := renderOutput
		if path == "" {
			path = h.ExportPath(strings.ToLower(renderSubject), strings.ToLower(renderClass), renderMode)
		}
		if err := api.WriteFile(path, pdf); err != nil {
			return err
		}

		fmt.Printf("Wrote %s (%d bytes)\n", path, len(pdf))
		return nil
	},
}

var renderInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default render template and watermark",
	Long: `Write the default layout template and watermark image to the
configured render paths.

Existing files are kept unless --force is given. The font is not
bundled; place a TrueType font at the configured font path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := loadConfig(h, newLogger())
		if err != nil {
			return err
		}

		assets := mgr.Get().RenderAssets(h.Path())
		written, err := render.InitAssets(assets, renderForce)
		if err != nil {
			return err
		}

		if len(written) == 0 {
			fmt.Println("Render assets already present (use --force to overwrite)")
		}
		for _, p := range written {
			fmt.Printf("Wrote %s\n", p)
		}
		fmt.Printf("Font: %s\n", assets.FontPath)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderSubject, "subject", "", "Subject name (required)")
	renderCmd.Flags().StringVar(&renderClass, "class", "", "Class level, e.g. PRIMARY_3 (required)")
	renderCmd.Flags().StringVar(&renderMode, "mode", "pupil", "Render mode: pupil or teacher")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: ~/.lessonpress/exports/<subject>_<class>_<mode>.pdf)")
	_ = renderCmd.MarkFlagRequired("subject")
	_ = renderCmd.MarkFlagRequired("class")

	renderInitCmd.Flags().BoolVar(&renderForce, "force", false, "Overwrite existing assets")

	renderCmd.AddCommand(renderInitCmd)
	rootCmd.AddCommand(renderCmd)
}
