package ports

import (
	"context"

	"github.com/akimov/cookiescrub/internal/core"
)

// Transport defines the interface for a user-facing delivery channel
type Transport interface {
	// ProcessExport runs one uploaded cookie export through the engine
	ProcessExport(ctx context.Context, userID int64, raw []byte) (*core.AnalysisResult, error)

	// Start starts serving user interactions
	Start() error

	// Stop stops the transport
	Stop() error
}
