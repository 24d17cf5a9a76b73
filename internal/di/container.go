package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/config"
	"github.com/akimov/cookiescrub/internal/core"
	"github.com/akimov/cookiescrub/internal/factory"
	"github.com/akimov/cookiescrub/internal/logging"
	"github.com/akimov/cookiescrub/internal/metrics"
	"github.com/akimov/cookiescrub/internal/ports"
	"github.com/akimov/cookiescrub/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics registry and exporter
	if err := container.Provide(metrics.New); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *metrics.Server {
		return metrics.NewServer(m, cfg.GetMetrics().ListenAddress, logger)
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewAnalyzerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSessionFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTransportFactory); err != nil {
		return nil, err
	}

	// Register analyzer service
	if err := container.Provide(func(f *factory.AnalyzerFactory) (*core.Analyzer, error) {
		return f.CreateAnalyzer()
	}); err != nil {
		return nil, err
	}

	// Register session store
	if err := container.Provide(func(f *factory.SessionFactory) (ports.SessionStore, error) {
		return f.CreateSessionStore()
	}); err != nil {
		return nil, err
	}

	// Register transport
	if err := container.Provide(func(f *factory.TransportFactory) (ports.Transport, error) {
		return f.CreateTransport()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
