package ports

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// SessionState identifies where a chat is in the bot menu flow.
type SessionState string

const (
	StateMainMenu        SessionState = "main_menu"
	StateIDMenu          SessionState = "id_menu"
	StateAwaitingFile    SessionState = "awaiting_file"
	StateAwaitingForward SessionState = "awaiting_forward"
)

// Session holds per-chat UI state between updates: the menu position,
// the message IDs the bot keeps editing in place, and the per-user rate
// limiter. It never stores cookie data.
type Session struct {
	ChatID          int64
	State           SessionState
	MainMessageID   int
	StatusMessageID int
	ReplyMessageID  int
	Limiter         *rate.Limiter
	LastSeen        time.Time
	ExpiresAt       time.Time
}

// SessionStore defines the interface for keeping per-chat sessions
type SessionStore interface {
	// Get retrieves the session for a chat
	Get(ctx context.Context, chatID int64) (*Session, error)

	// Set stores a session
	Set(ctx context.Context, s *Session) error

	// Delete removes a session
	Delete(ctx context.Context, chatID int64) error

	// Cleanup removes expired sessions
	Cleanup(ctx context.Context) error
}
