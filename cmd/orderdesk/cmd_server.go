package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/pkg/app"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

var serveAddr string

// orderdesk serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a, err := app.New(app.DefaultOptions())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := serveAddr
		if addr == "" {
			addr = ":" + config.AppPort()
		}
		logger.Info("starting orderdesk", "env", config.AppEnv(), "backend", config.BackendURL())
		return a.Serve(ctx, addr)
	},
}

// orderdesk route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(app.DefaultOptions())
		if err != nil {
			return err
		}
		return a.RouteList(cmd.OutOrStdout())
	},
}

// orderdesk schedule:list: print the background jobs.
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the background jobs started with serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(app.DefaultOptions())
		if err != nil {
			return err
		}
		return a.JobList(cmd.OutOrStdout())
	},
}

// orderdesk config:check: validate configuration.
var configCheckCmd = &cobra.Command{
	Use:   "config:check",
	Short: "Validate configuration and print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ConfigCheck(cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :APP_PORT)")
}
