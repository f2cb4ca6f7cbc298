package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the assessment, dashboard, job, chat and career endpoints.
Owner tokens are required on /api routes when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if servePort != 0 {
		appConfig.Port = servePort
	}

	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var opts []server.Option
	if appConfig.JWTSecret != "" {
		jwtCfg, err := appConfig.JWT()
		if err != nil {
			return err
		}
		opts = append(opts, server.WithJWT(server.NewJWTService(jwtCfg)))
		logger.Info("owner tokens required")
	}

	srv := server.New(server.Config{
		Port:       appConfig.Port,
		CORSOrigin: appConfig.CORSOrigin,
	}, a.facade, logger.Named("http"), opts...)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	logger.Info("goodbye", zap.Int("port", appConfig.Port))
	return nil
}

// commandContext returns the command's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
