package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
	"github.com/FACorreiaa/go-travelguide/internal/pkg/config"
	"github.com/FACorreiaa/go-travelguide/internal/pkg/logger"
	"github.com/FACorreiaa/go-travelguide/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "travelguide",
	Short: "AI travel guide generator",
	Long: `travelguide drafts a day-by-day itinerary for a destination with a
Gemini model, illustrates it with generated pictures and exports it as a PDF.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web application",
	RunE:  runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, models.ErrMissingAPIKey) {
			fmt.Fprintln(os.Stderr, "GEMINI_API_KEY is not set. Add it to your environment or a .env file.")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// setup loads .env, the configuration and the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: failed to load .env file:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if err := logger.Init(cfg.ZapLevel(), zap.String("service", config.ServiceName)); err != nil {
		return nil, nil, err
	}
	return cfg, logger.Log, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := server.InitObservability(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	srv.SetRouter(server.SetupRouter(cfg, srv.GuideService(), log))

	server.StartPprofServer(cfg.PprofAddr, log)

	httpServer := srv.HTTPServer()
	done := make(chan struct{})
	go server.GracefulShutdown(ctx, httpServer, log, done)

	log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-done
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	log.Info("Graceful shutdown complete")
	return nil
}
