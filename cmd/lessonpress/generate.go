package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/svcctx"
)

var (
	generatePolicy string
	generateDelay  time.Duration
	generateReport string
)

var generateCmd = &cobra.Command{
	Use:   "generate <table>",
	Short: "Generate and store lessons for a topic table",
	Long: `Generate one lesson per topic record in a SurrealDB table and store
each result in the lesson table.

Topics are processed in order with a pause between generation requests.
With the default fail_fast policy the run stops at the first failure;
with --policy continue failed topics are recorded and the run moves on.

Examples:
  lessonpress generate lessons_term1
  lessonpress generate lessons_term1 --policy continue
  lessonpress generate lessons_term1 --delay 2s --report run.json`,
	Args: cobra.ExactArgs(1),
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

		cfg := *mgr.Get()
		if cmd.Flags().Changed("policy") {
			cfg.Pipeline.Policy = generatePolicy
		}
		if cmd.Flags().Changed("delay") {
			cfg.Pipeline.Delay = generateDelay
		}

		svcs, err := svcctx.Build(ctx, &cfg, h, logger)
		if err != nil {
			return err
		}
		defer svcs.Close()

		report, runErr := svcs.Workflow.GenerateAndStore(ctx, args[0])
		if report != nil {
			if generateReport != "" {
				if err := api.OutputToFile(report, generateReport); err != nil {
					return err
				}
				logger.Info("report written", "path", generateReport)
			}
			if err := api.Output(report); err != nil {
				return err
			}
		}
		if runErr != nil {
			return fmt.Errorf("generation run failed: %w", runErr)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generatePolicy, "policy", "fail_fast", "Failure policy: fail_fast or continue (overrides pipeline.policy)")
	generateCmd.Flags().DurationVar(&generateDelay, "delay", 4*time.Second, "Pause between generation requests (overrides pipeline.delay)")
	generateCmd.Flags().StringVar(&generateReport, "report", "", "Also write the run report to this file (.json or .yaml)")

	rootCmd.AddCommand(generateCmd)
}
