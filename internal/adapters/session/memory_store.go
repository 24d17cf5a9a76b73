package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/ports"
)

var (
	// ErrNotFound is returned when no session exists for a chat
	ErrNotFound = errors.New("session not found")
)

// MemoryStore is an in-memory implementation of the SessionStore
// interface. Sessions live only as long as their TTL; nothing is ever
// written to disk.
type MemoryStore struct {
	sessions    map[int64]*ports.Session
	mu          sync.RWMutex
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMemoryStore creates a new in-memory session store and starts its
// background cleanup task.
func NewMemoryStore(logger *zap.Logger, ttl, cleanupFreq time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions:    make(map[int64]*ports.Session),
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go store.startCleanupTask()

	return store
}

// Get retrieves the session for a chat
func (s *MemoryStore) Get(ctx context.Context, chatID int64) (*ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Set stores a session and refreshes its expiry
func (s *MemoryStore) Set(ctx context.Context, sess *ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess.LastSeen = now
	sess.ExpiresAt = now.Add(s.ttl)
	s.sessions[sess.ChatID] = sess
	return nil
}

// Delete removes a session
func (s *MemoryStore) Delete(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

// Cleanup removes expired sessions
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for chatID, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, chatID)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		s.logger.Debug("Cleaned up expired sessions", zap.Int("expired_count", expiredCount))
	}
	return nil
}

// startCleanupTask runs periodic cleanup until Stop is called
func (s *MemoryStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up sessions", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	close(s.stopCh)
}
