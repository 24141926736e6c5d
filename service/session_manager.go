package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"synergy-engine/domain"
	"synergy-engine/repository"
)

// SessionManager tracks sessions by ID and evicts the ones left idle.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	insight *InsightService
	slot    repository.ResultSlot
	logger  *zap.Logger
	idleTTL time.Duration

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewSessionManager starts the eviction loop when idleTTL is positive.
// Call Stop to end it.
func NewSessionManager(
	insight *InsightService,
	slot repository.ResultSlot,
	idleTTL time.Duration,
	logger *zap.Logger,
) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &SessionManager{
		sessions:    make(map[string]*Session),
		insight:     insight,
		slot:        slot,
		logger:      logger,
		idleTTL:     idleTTL,
		stopCleanup: make(chan struct{}),
	}
	if idleTTL > 0 {
		go m.cleanupLoop(min(sessionCleanupInterval, idleTTL))
	}
	return m
}

// NewSessionID returns a fresh random session ID.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like one issued by NewSessionID.
func ValidSessionID(id string) bool {
	return uuid.Validate(id) == nil
}

// Get returns the session for id, creating it if needed.
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = newSession(id, m.insight, m.slot, m.logger)
		m.sessions[id] = s
	}
	return s
}

// Submit runs a submission on the session for id. A session evicted between
// lookup and submit is replaced by a fresh one.
func (m *SessionManager) Submit(ctx context.Context, id string, input domain.AnalysisInput) (domain.AnalysisResult, error) {
	for {
		result, err := m.Get(id).Submit(ctx, input)
		if !errors.Is(err, ErrSessionEvicted) {
			return result, err
		}
	}
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup(time.Now())
		case <-m.stopCleanup:
			return
		}
	}
}

// cleanup holds m.mu until the evicted results are deleted, so a session
// recreated under the same id cannot store a result that is then dropped.
func (m *SessionManager) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if !s.evictIfIdle(now, m.idleTTL) {
			continue
		}
		delete(m.sessions, id)
		evicted++
		if err := m.slot.Delete(context.Background(), id); err != nil {
			m.logger.Warn("failed to drop result of evicted session", zap.String("session", id), zap.Error(err))
		}
	}
	if evicted > 0 {
		m.logger.Debug("evicted idle sessions", zap.Int("count", evicted))
	}
}

func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCleanup) })
}
