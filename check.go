package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosmobowz/cosmo/api"
	"github.com/cosmobowz/cosmo/config"
	"github.com/cosmobowz/cosmo/log"
)

// apiTimeout bounds the one-shot CLI requests (check, export).
const apiTimeout = 10 * time.Second

// errUnhealthy is returned when the server or its services are degraded, to
// signal exit code 1 without printing a message.
var errUnhealthy = errors.New("unhealthy")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check server health and monitored service status",
		Long: `Pings the server's health endpoint and reports each monitored
service's status.

Exit code 0 if the server answers and every service is online, exit code 1
otherwise.`,
		RunE: runCheck,
		// Suppress usage on error: health failures are not usage errors.
		SilenceUsage: true,
		// Suppress cobra's "Error: ..." line for the unhealthy sentinel.
		SilenceErrors: true,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	log.Initialize()
	defer log.Close()

	cfg := config.LoadConfig()
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	out := cmd.OutOrStdout()
	ctx := context.Background()
	client := api.NewClient(cfg.ServerURL, apiTimeout)

	if err := client.Health(ctx); err != nil {
		fmt.Fprintf(out, "✗ server %s unreachable: %v\n", cfg.ServerURL, err)
		return errUnhealthy
	}
	fmt.Fprintf(out, "✓ server %s\n", cfg.ServerURL)

	services, err := client.Uptime(ctx)
	if err != nil {
		fmt.Fprintf(out, "✗ uptime endpoint failed: %v\n", err)
		return errUnhealthy
	}

	online := 0
	for _, s := range services {
		glyph := "✓"
		if s.Status != api.ServiceOnline {
			glyph = "✗"
		} else {
			online++
		}
		fmt.Fprintf(out, "  %s %-20s %s\n", glyph, s.Name, s.Status)
	}

	fmt.Fprintf(out, "\nHealth: %d/%d services online\n", online, len(services))
	if online < len(services) {
		return errUnhealthy
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}
