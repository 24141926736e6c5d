package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"synergy-engine/domain"
	"synergy-engine/repository"
)

// ErrBusy is returned when a submission is already in flight for the session.
var ErrBusy = errors.New("a submission is already in progress")

// ErrSessionEvicted is returned by a Session that its SessionManager has
// already dropped. SessionManager.Submit retries on a fresh session.
var ErrSessionEvicted = errors.New("session was evicted")

// Session owns the busy flag and the current result of one user.
type Session struct {
	id      string
	insight *InsightService
	slot    repository.ResultSlot
	logger  *zap.Logger

	inFlight *semaphore.Weighted

	mu           sync.Mutex
	state        domain.SubmissionState
	lastActive   time.Time
	evicted      bool
	onTransition func(domain.SubmissionState)
}

func newSession(id string, insight *InsightService, slot repository.ResultSlot, logger *zap.Logger) *Session {
	return &Session{
		id:         id,
		insight:    insight,
		slot:       slot,
		logger:     logger.With(zap.String("session", id)),
		inFlight:   semaphore.NewWeighted(1),
		state:      domain.StateIdle,
		lastActive: time.Now(),
	}
}

// NewSession creates a standalone session that is not tracked by a SessionManager.
func NewSession(id string, insight *InsightService, slot repository.ResultSlot, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newSession(id, insight, slot, logger)
}

func (s *Session) ID() string {
	return s.id
}

// OnTransition registers fn to be called on every state change.
func (s *Session) OnTransition(fn func(domain.SubmissionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTransition = fn
}

func (s *Session) State() domain.SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether the submit control should be disabled.
func (s *Session) Busy() bool {
	return s.State().Busy()
}

// Current returns the last completed result, if any.
func (s *Session) Current(ctx context.Context) (domain.AnalysisResult, bool, error) {
	s.touch()
	return s.slot.Load(ctx, s.id)
}

// Submit runs one full submission: validation, analysis, and the insight
// request. Only one submission may run at a time; a concurrent call gets
// ErrBusy. A validation failure returns *ValidationError and leaves the
// current result untouched.
func (s *Session) Submit(ctx context.Context, input domain.AnalysisInput) (domain.AnalysisResult, error) {
	if !s.inFlight.TryAcquire(1) {
		return domain.AnalysisResult{}, ErrBusy
	}
	defer s.inFlight.Release(1)
	if s.isEvicted() {
		return domain.AnalysisResult{}, ErrSessionEvicted
	}
	s.touch()

	s.setState(domain.StateValidating)
	target, a, b, err := ParseInput(input)
	if err != nil {
		s.setState(domain.StateRejected)
		s.setState(domain.StateIdle)
		return domain.AnalysisResult{}, err
	}

	s.setState(domain.StateAnalyzing)
	result := Analyze(target, a, b)

	s.setState(domain.StateAwaitingInsight)
	future := s.insight.RequestInsightAsync(ctx, target, result.BoundLow, result.BoundHigh)
	<-future.Done()
	result.InsightText, result.InsightSource, _ = future.Await(context.Background())
	result.CompletedAt = time.Now().UTC()

	s.setState(domain.StateComplete)
	if err := s.slot.Store(context.WithoutCancel(ctx), s.id, result); err != nil {
		s.logger.Warn("failed to store result", zap.Error(err))
	}
	s.setState(domain.StateIdle)

	s.logger.Info("submission complete",
		zap.Float64("target", result.Target),
		zap.Int64("bound_low", result.BoundLow),
		zap.Int64("bound_high", result.BoundHigh),
		zap.Bool("contained", result.IsContained),
		zap.String("insight_source", result.InsightSource),
	)
	return result, nil
}

func (s *Session) setState(to domain.SubmissionState) {
	s.mu.Lock()
	from := s.state
	s.state = to
	fn := s.onTransition
	s.mu.Unlock()

	s.logger.Debug("state transition", zap.Stringer("from", from), zap.Stringer("to", to))
	if fn != nil {
		fn(to)
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) isEvicted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}

// evictIfIdle marks the session evicted when nothing is in flight and it has
// been idle longer than ttl. The caller must drop it from its registry.
func (s *Session) evictIfIdle(now time.Time, ttl time.Duration) bool {
	if !s.inFlight.TryAcquire(1) {
		return false
	}
	defer s.inFlight.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateIdle || now.Sub(s.lastActive) <= ttl {
		return false
	}
	s.evicted = true
	return true
}

func (s *Session) String() string {
	return fmt.Sprintf("session(%s, %s)", s.id, s.State())
}
