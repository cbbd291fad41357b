package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/config"
	"github.com/jackzampolin/lessonpress/internal/home"
	"github.com/jackzampolin/lessonpress/internal/surreal"
)

var surrealCmd = &cobra.Command{
	Use:   "surreal",
	Short: "Manage the SurrealDB container",
	Long: `Manage the SurrealDB container lifecycle.

SurrealDB holds the topic tables and the generated lessons. The database
runs in a Docker container with data persisted to ~/.lessonpress/data/.

Examples:
  lessonpress surreal start   # Start the SurrealDB container
  lessonpress surreal stop    # Stop the container (data preserved)
  lessonpress surreal status  # Check container status
  lessonpress surreal logs    # View container logs`,
}

var surrealStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the SurrealDB container",
	Long: `Start the SurrealDB container.

If the container doesn't exist, it will be created and started.
If it exists but is stopped, it will be started.
If it's already running, this is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting SurrealDB...")
		if err := mgr.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to start SurrealDB: %w", err)
		}

		fmt.Printf("SurrealDB is running at %s\n", mgr.URL())
		return nil
	},
}

var surrealStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the SurrealDB container",
	Long: `Stop the SurrealDB container.

This stops the container but preserves data. Use 'lessonpress surreal start'
to restart it later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping SurrealDB...")
		if err := mgr.Stop(cmd.Context()); err != nil {
			return fmt.Errorf("failed to stop SurrealDB: %w", err)
		}

		fmt.Println("SurrealDB stopped")
		return nil
	},
}

var surrealStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show SurrealDB container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}
		cfgMgr, err := loadConfig(h, newLogger())
		if err != nil {
			return err
		}
		mgr, err := surreal.NewDockerManager(dockerConfig(h, cfgMgr.Get()))
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch status {
		case surreal.StatusRunning:
			fmt.Printf("Status: %s\n", status)
			fmt.Printf("URL: %s\n", mgr.URL())

			storeCfg := cfgMgr.Get().StoreClientConfig()
			storeCfg.URL = mgr.URL()
			client := surreal.NewClient(storeCfg)
			if err := client.HealthCheck(ctx); err != nil {
				fmt.Printf("Health: unhealthy (%v)\n", err)
			} else {
				fmt.Println("Health: healthy")
			}
		case surreal.StatusStopped:
			fmt.Printf("Status: %s (use 'lessonpress surreal start' to start)\n", status)
		case surreal.StatusNotFound:
			fmt.Printf("Status: %s (use 'lessonpress surreal start' to create)\n", status)
		default:
			fmt.Printf("Status: %s\n", status)
		}

		return nil
	},
}

var logsTail string

var surrealLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show SurrealDB container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(cmd.Context(), logsTail)
		if err != nil {
			return fmt.Errorf("failed to get logs: %w", err)
		}

		fmt.Print(logs)
		return nil
	},
}

var surrealRemoveCmd = &cobra.Command{
	Use:     "rm",
	Aliases: []string{"remove"},
	Short:   "Remove the SurrealDB container",
	Long: `Remove the SurrealDB container.

This stops and removes the container. Data in ~/.lessonpress/data/
is NOT deleted - only the container is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Removing SurrealDB container...")
		if err := mgr.Remove(cmd.Context()); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("SurrealDB container removed (data preserved)")
		return nil
	},
}

var surrealWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for SurrealDB to be ready",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getDockerManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		fmt.Printf("Waiting for SurrealDB (timeout: %s)...\n", timeout)

		if err := mgr.WaitReady(cmd.Context(), timeout); err != nil {
			return fmt.Errorf("SurrealDB not ready: %w", err)
		}

		fmt.Println("SurrealDB is ready")
		return nil
	},
}

func init() {
	surrealCmd.AddCommand(surrealStartCmd)
	surrealCmd.AddCommand(surrealStopCmd)
	surrealCmd.AddCommand(surrealStatusCmd)
	surrealCmd.AddCommand(surrealLogsCmd)
	surrealCmd.AddCommand(surrealRemoveCmd)
	surrealCmd.AddCommand(surrealWaitCmd)

	surrealLogsCmd.Flags().StringVar(&logsTail, "tail", "100", "Number of lines to show from the end")
	surrealWaitCmd.Flags().Duration("timeout", 30*time.Second, "Timeout waiting for SurrealDB")

	rootCmd.AddCommand(surrealCmd)
}

// getDockerManager creates a DockerManager from the home directory and config.
func getDockerManager() (*surreal.DockerManager, error) {
	h, err := getHome()
	if err != nil {
		return nil, err
	}
	cfgMgr, err := loadConfig(h, newLogger())
	if err != nil {
		return nil, err
	}
	return surreal.NewDockerManager(dockerConfig(h, cfgMgr.Get()))
}

// dockerConfig maps the store section onto container settings.
func dockerConfig(h *home.Dir, cfg *config.Config) surreal.DockerConfig {
	return surreal.DockerConfig{
		ContainerName: surreal.GenerateContainerName(h.Path()),
		Image:         cfg.Store.Image,
		DataPath:      h.DataPath(),
		HostPort:      cfg.Store.Port,
		Username:      cfg.Store.Username,
		Password:      config.ResolveEnvVars(cfg.Store.Password),
	}
}
