package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/server"
)

var (
	serveHost        string
	servePort        string
	serveManageStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lessonpress server",
	Long: `Start the lessonpress HTTP server.

The server provides:
  - /health                  Basic server health check
  - /ready                   Readiness check (includes the document store)
  - /status                  Store, generator and cache status
  - /api/topics/{table}      List topic records
  - /api/content/generate    Generate and store lessons for a topic table
  - /api/lessons             List stored lessons
  - /api/render              Render stored lessons to PDF
  - /swagger.json            OpenAPI spec

With --with-store the SurrealDB container is started alongside the server
and stopped when it shuts down (via Ctrl+C or SIGTERM).

Configuration edits are picked up without a restart.

Examples:
  lessonpress serve                    # Start on the configured address
  lessonpress serve --port 3000        # Start on custom port
  lessonpress serve --with-store       # Also run SurrealDB in Docker`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := getHome()
		if err != nil {
			return err
		}
		if err := server.CheckNotRunning(h.PIDPath()); err != nil {
			return err
		}

		mgr, err := loadConfig(h, logger)
		if err != nil {
			return err
		}
		mgr.WatchConfig()
		cfg := mgr.Get()

		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			WriteTimeout:  cfg.Server.WriteTimeout,
			ConfigManager: mgr,
			Home:          h,
			ManageStore:   serveManageStore,
			StoreDocker:   dockerConfig(h, cfg),
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveManageStore, "with-store", false, "Start and stop the SurrealDB container with the server")

	rootCmd.AddCommand(serveCmd)
}
