package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/config"
	"github.com/akimov/cookiescrub/internal/di"
	"github.com/akimov/cookiescrub/internal/metrics"
	"github.com/akimov/cookiescrub/internal/ports"
)

func main() {
	// Pick up a local .env when present; real environment variables win
	_ = godotenv.Load()

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	transport ports.Transport,
	sessions ports.SessionStore,
	metricsServer *metrics.Server,
) error {
	defer logger.Sync()

	metricsEnabled := cfg.GetMetrics().Enabled
	if metricsEnabled {
		metricsServer.Start()
	}

	// Start the bot
	if err := transport.Start(); err != nil {
		logger.Error("Failed to start transport", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := transport.Stop(); err != nil {
		logger.Error("Failed to stop transport", zap.Error(err))
	}

	// Stop the session store's cleanup task if it has one
	if stopper, ok := sessions.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if metricsEnabled {
		if err := metricsServer.Stop(); err != nil {
			logger.Error("Failed to stop metrics server", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
