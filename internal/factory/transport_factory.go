package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/adapters/telegram"
	"github.com/akimov/cookiescrub/internal/config"
	"github.com/akimov/cookiescrub/internal/core"
	"github.com/akimov/cookiescrub/internal/metrics"
	"github.com/akimov/cookiescrub/internal/ports"
	"github.com/akimov/cookiescrub/internal/utils"
)

// TransportFactory creates the user-facing transport
type TransportFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *core.Analyzer
	sessions ports.SessionStore
	metrics  *metrics.Metrics
	text     *utils.TextProcessor
}

// NewTransportFactory creates a new transport factory
func NewTransportFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.Analyzer,
	sessions ports.SessionStore,
	m *metrics.Metrics,
	text *utils.TextProcessor,
) *TransportFactory {
	return &TransportFactory{
		cfg:      cfg,
		logger:   logger,
		service:  service,
		sessions: sessions,
		metrics:  m,
		text:     text,
	}
}

// CreateTransport creates the Telegram transport from the configuration
func (f *TransportFactory) CreateTransport() (ports.Transport, error) {
	tgCfg, err := f.cfg.GetTelegram()
	if err != nil {
		return nil, err
	}
	if err := tgCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telegram configuration: %w", err)
	}

	return telegram.NewBot(
		f.service,
		f.sessions,
		f.metrics,
		f.text,
		f.logger,
		tgCfg.Token,
		tgCfg.PollTimeout,
		tgCfg.MaxFileSize,
		tgCfg.RateRPS,
		tgCfg.RateBurst,
	), nil
}
