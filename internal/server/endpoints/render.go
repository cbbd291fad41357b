package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/svcctx"
	"github.com/jackzampolin/lessonpress/internal/workflow"
)

// RenderEndpoint handles GET /api/render.
type RenderEndpoint struct{}

func (e *RenderEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/render", e.handler
}

func (e *RenderEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Render lessons to PDF
//	@Description	Always answers 200. The body is a PDF, or the failure message as text/plain.
//	@Tags			render
//	@Produce		application/pdf
//	@Produce		plain
//	@Param			subject	query		string	true	"Subject"
//	@Param			class	query		string	true	"Class level, e.g. PRIMARY_3"
//	@Param			mode	query		string	true	"pupil or teacher"
//	@Success		200		{file}		binary
//	@Router			/api/render [get]
func (e *RenderEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		notInitialized(w)
		return
	}

	q := r.URL.Query()
	subject, class, mode := q.Get("subject"), q.Get("class"), q.Get("mode")
	contentType, body := wf.RenderPDF(r.Context(), subject, class, mode)

	if contentType == workflow.ContentTypePDF {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", exportName(subject, class, mode)))
		w.Header().Set("Content-Type", contentType)
	} else {
		w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (e *RenderEndpoint) Command(getServerURL func() string) *cobra.Command {
	var subject, class, mode, output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render stored lessons to a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			q := url.Values{"subject": {subject}, "class": {class}, "mode": {mode}}
			contentType, body, err := client.GetRaw(cmd.Context(), "/api/render?"+q.Encode())
			if err != nil {
				return err
			}
			if !strings.HasPrefix(contentType, workflow.ContentTypePDF) {
				return errors.New(strings.TrimSpace(string(body)))
			}
			if output == "" {
				output = exportName(subject, class, mode)
			}
			if err := api.WriteFile(output, body); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d bytes)\n", output, len(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Subject name")
	cmd.Flags().StringVar(&class, "class", "", "Class level, e.g. PRIMARY_3")
	cmd.Flags().StringVar(&mode, "mode", "pupil", "pupil or teacher")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <subject>_<class>_<mode>.pdf)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

// exportName returns the default file name for a render.
func exportName(subject, class, mode string) string {
	name := strings.ToLower(strings.Join([]string{subject, class, mode}, "_"))
	return strings.NewReplacer(" ", "-", "/", "-", `"`, "").Replace(name) + ".pdf"
}
