package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"synergy-engine/domain"
)

type MockProvider struct {
	Text       string
	Err        error
	Calls      atomic.Int32
	LastPrompt atomic.Value
	Release    chan struct{} // when set, Generate blocks until it is closed
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls.Add(1)
	m.LastPrompt.Store(prompt)
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

func TestBuildInsightPrompt(t *testing.T) {
	prompt := BuildInsightPrompt(3.1415, 47000, 53000)

	assert.Contains(t, prompt, "Target: 3.1415")
	assert.Contains(t, prompt, "Min bound: 47000")
	assert.Contains(t, prompt, "Max bound: 53000")
	assert.Contains(t, prompt, "under 100 words")
}

func TestRequestInsight_Success(t *testing.T) {
	provider := &MockProvider{Text: "  Pi sits far below the bounds.\n"}
	svc := NewInsightService(provider, zap.NewNop())

	got := svc.RequestInsight(context.Background(), 3.1415, 47000, 53000)

	assert.Equal(t, "Pi sits far below the bounds.", got)
	assert.Equal(t, int32(1), provider.Calls.Load())
	assert.Equal(t, BuildInsightPrompt(3.1415, 47000, 53000), provider.LastPrompt.Load())
}

func TestRequestInsight_EmptyText(t *testing.T) {
	svc := NewInsightService(&MockProvider{Text: " \n\t"}, zap.NewNop())

	text, source := svc.requestInsight(context.Background(), 1, 0, 2)

	assert.Equal(t, NoInsightText, text)
	assert.Equal(t, domain.InsightEmpty, source)
}

func TestRequestInsight_FailureFallsBackAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	provider := &MockProvider{Err: errors.New("connection refused")}
	svc := NewInsightService(provider, zap.New(core))

	text, source := svc.requestInsight(context.Background(), 1, 0, 2)

	assert.Equal(t, FallbackInsightText, text)
	assert.Equal(t, domain.InsightFallback, source)
	assert.Equal(t, int32(1), provider.Calls.Load(), "no retries")

	entries := logs.FilterMessage("insight request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "mock", entries[0].ContextMap()["provider"])
}

func TestRequestInsight_NoProvider(t *testing.T) {
	svc := NewInsightService(nil, nil)

	assert.Equal(t, FallbackInsightText, svc.RequestInsight(context.Background(), 1, 0, 2))
}

func TestInsightFuture_Await(t *testing.T) {
	provider := &MockProvider{Text: "ok", Release: make(chan struct{})}
	svc := NewInsightService(provider, zap.NewNop())

	future := svc.RequestInsightAsync(context.Background(), 1, 0, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err := future.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(provider.Release)
	text, source, err := future.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, domain.InsightFromProvider, source)
}
