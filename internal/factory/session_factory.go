package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/adapters/session"
	"github.com/akimov/cookiescrub/internal/config"
	"github.com/akimov/cookiescrub/internal/ports"
)

// SessionFactory creates session stores based on configuration
type SessionFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSessionFactory creates a new session factory
func NewSessionFactory(cfg *config.Config, logger *zap.Logger) *SessionFactory {
	return &SessionFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSessionStore creates a session store based on the configuration
func (f *SessionFactory) CreateSessionStore() (ports.SessionStore, error) {
	sessCfg, err := f.cfg.GetSession()
	if err != nil {
		return nil, err
	}
	if err := sessCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session configuration: %w", err)
	}

	switch sessCfg.Type {
	case "memory":
		return session.NewMemoryStore(f.logger, sessCfg.TTL, sessCfg.CleanupFrequency), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", sessCfg.Type)
	}
}
