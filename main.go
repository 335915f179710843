package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/app"
	"github.com/cosmobowz/cosmo/config"
	"github.com/cosmobowz/cosmo/config/snapshot"
	sentrypkg "github.com/cosmobowz/cosmo/internal/sentry"
	"github.com/cosmobowz/cosmo/log"
	"github.com/cosmobowz/cosmo/ui"
)

var (
	version    = "0.3.0"
	serverFlag string
	rootCmd    = &cobra.Command{
		Use:   "cosmo",
		Short: "cosmo - Personal command center dashboard for projects, tasks, ideas, and agents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg := config.LoadConfig()
			if serverFlag != "" {
				cfg.ServerURL = serverFlag
			}

			if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
				// Non-fatal: sentry failure should not prevent startup
				_ = err
			}
			defer sentrypkg.Flush()
			defer sentrypkg.RecoverPanic()

			log.Initialize()
			defer log.Close()

			sentrypkg.SetContext(cfg.ServerURL, cfg.WebSocketURL() != "")

			return app.Run(ctx, cfg)
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Clear the offline snapshot database",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			path, err := snapshot.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to locate snapshot: %w", err)
			}
			snaps, err := snapshot.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open snapshot: %w", err)
			}
			defer snaps.Close()

			if err := snaps.Reset(); err != nil {
				return fmt.Errorf("failed to reset snapshot: %w", err)
			}
			fmt.Println("Offline snapshot has been cleared")
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)
			fmt.Printf("Websocket: %s\n", cfg.WebSocketURL())
			if path, err := snapshot.DefaultPath(); err == nil {
				fmt.Printf("Snapshot: %s\n", path)
			}

			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cosmo",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cosmo version %s\n", version)
		},
	}
)

func newExportCmd() *cobra.Command {
	var toClipboard bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the activity log",
		Long: `Fetches the activity log from the server and writes it out in the
"[timestamp] [TYPE] message" export format. Falls back to the offline
snapshot when the server is unreachable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			cfg := config.LoadConfig()
			if serverFlag != "" {
				cfg.ServerURL = serverFlag
			}

			ctx := context.Background()
			client := api.NewClient(cfg.ServerURL, apiTimeout)

			logs, err := client.Logs(ctx)
			if err != nil {
				log.WarningLog.Printf("log fetch failed, using snapshot: %v", err)
				path, perr := snapshot.DefaultPath()
				if perr != nil {
					return fmt.Errorf("server unreachable and no snapshot: %w", err)
				}
				snaps, oerr := snapshot.Open(path)
				if oerr != nil {
					return fmt.Errorf("server unreachable and no snapshot: %w", err)
				}
				defer snaps.Close()
				snap, lerr := snaps.Load()
				if lerr != nil {
					return fmt.Errorf("server unreachable and no snapshot: %w", err)
				}
				logs = snap.Logs
			}

			if len(logs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no activity to export")
				return nil
			}

			out := ui.ExportLogs(logs)
			if toClipboard {
				if err := clipboard.WriteAll(out); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "copied %d log entries to clipboard\n", len(logs))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&toClipboard, "clipboard", "c", false, "copy to the clipboard instead of stdout")
	return cmd
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "",
		"Server base URL (overrides the configured server)")

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(newExportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errUnhealthy) {
			os.Exit(1)
		}
		fmt.Println(err)
		os.Exit(1)
	}
}
