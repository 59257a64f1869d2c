package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// GracefulShutdown waits for ctx to be cancelled, then gives in-flight
// requests shutdownTimeout to finish. done is closed once the server stopped.
func GracefulShutdown(ctx context.Context, srv *http.Server, logger *zap.Logger, done chan<- struct{}) {
	defer close(done)

	<-ctx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
