// Package commands provides the cobra commands of the sample-data-service binary.
package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/api/public"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/config"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/server"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/telemetry"
)

// ServeCommand creates the serve command.
func ServeCommand(build public.BuildMetadata) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Serve GET /data on HTTP_PORT and health, readiness and metrics on
ADMIN_PORT until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe(cmd.Context(), build)
		},
	}
}

// RunServe loads configuration from the environment and serves until ctx is
// cancelled or a termination signal arrives.
func RunServe(ctx context.Context, build public.BuildMetadata) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting sample data service",
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.HTTPPort),
		zap.Int("admin_port", cfg.AdminPort),
		zap.String("version", build.Version),
	)

	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: build.Version,
		Environment:    cfg.Environment,
		Enabled:        cfg.TelemetryEnabled,
		Endpoint:       cfg.TelemetryEndpoint,
		Protocol:       cfg.TelemetryProtocol,
		Headers:        cfg.OTLPHeaders(),
		Insecure:       cfg.TelemetryInsecure,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	if tel.Fallback() {
		logger.Warn("telemetry exporter unavailable, tracing disabled")
	} else if tel.Exporter() != "" {
		logger.Info("tracing enabled", zap.String("exporter", tel.Exporter()))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown telemetry", zap.Error(err))
		}
	}()

	dataHandler := public.NewHandler(public.HandlerConfig{Logger: logger})
	statusHandlers := public.NewStatusHandlers(public.StatusHandlersConfig{
		BuildMetadata:  build,
		Logger:         logger,
		TelemetryState: tel.State,
	})

	srv := server.New(server.Options{
		Addr:                cfg.HTTPAddr(),
		AdminAddr:           cfg.AdminAddr(),
		ReadHeaderTimeout:   cfg.ReadHeaderTimeout,
		ShutdownTimeout:     cfg.ShutdownTimeout,
		Logger:              logger,
		RegisterRoutes:      dataHandler.RegisterRoutes,
		RegisterAdminRoutes: statusHandlers.RegisterRoutes,
		OnShutdown:          statusHandlers.SetDraining,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("sample data service stopped")
	return nil
}
