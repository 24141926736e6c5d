package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"synergy-engine/domain"
)

// InsightService asks a Provider for a short commentary about the numbers.
// It never fails: any problem degrades to a fixed fallback text.
type InsightService struct {
	provider Provider
	logger   *zap.Logger
}

// NewInsightService creates an InsightService. A nil provider makes every
// request resolve to the fallback text.
func NewInsightService(provider Provider, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if provider == nil {
		logger.Warn("insight provider not configured, fallback text will be used")
	}
	return &InsightService{provider: provider, logger: logger}
}

// BuildInsightPrompt embeds the target and the ordered bounds in the prompt.
func BuildInsightPrompt(target float64, low, high int64) string {
	return fmt.Sprintf(`Analyze these numbers: Target: %s, Min bound: %d, Max bound: %d.
Provide a short, fascinating mathematical or historical paragraph about these specific numbers.
Focus on their relationship or individual properties. Keep it under 100 words.`,
		strconv.FormatFloat(target, 'g', -1, 64), low, high)
}

// RequestInsight makes exactly one provider call and returns its trimmed text.
func (s *InsightService) RequestInsight(ctx context.Context, target float64, low, high int64) string {
	text, _ := s.requestInsight(ctx, target, low, high)
	return text
}

// requestInsight also reports which source produced the text.
func (s *InsightService) requestInsight(ctx context.Context, target float64, low, high int64) (string, string) {
	if s.provider == nil {
		s.logger.Debug("insight skipped", zap.Error(ErrNoProvider))
		return FallbackInsightText, domain.InsightFallback
	}

	start := time.Now()
	text, err := s.provider.Generate(ctx, BuildInsightPrompt(target, low, high))
	if err != nil {
		s.logger.Warn("insight request failed",
			zap.String("provider", s.provider.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return FallbackInsightText, domain.InsightFallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Info("insight provider returned empty text", zap.String("provider", s.provider.Name()))
		return NoInsightText, domain.InsightEmpty
	}

	s.logger.Debug("insight received",
		zap.String("provider", s.provider.Name()),
		zap.Duration("duration", time.Since(start)),
		zap.Int("length", len(text)),
	)
	return text, domain.InsightFromProvider
}

// InsightFuture is a single pending insight request. It resolves exactly once.
type InsightFuture struct {
	done   chan struct{}
	text   string
	source string
}

// RequestInsightAsync starts the request and returns immediately.
func (s *InsightService) RequestInsightAsync(ctx context.Context, target float64, low, high int64) *InsightFuture {
	f := &InsightFuture{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.text, f.source = s.requestInsight(ctx, target, low, high)
	}()
	return f
}

// Done is closed once the insight is available.
func (f *InsightFuture) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the insight resolves. The request itself always
// resolves to some text, so Await only fails if ctx ends first.
func (f *InsightFuture) Await(ctx context.Context) (string, string, error) {
	select {
	case <-f.done:
		return f.text, f.source, nil
	case <-ctx.Done():
		return "", "", ctx.Err()
	}
}
