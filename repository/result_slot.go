package repository

import (
	"context"

	"synergy-engine/domain"
)

// ResultSlot holds the single current result of each session. Store
// replaces the previous value wholesale.
type ResultSlot interface {
	Load(ctx context.Context, sessionID string) (domain.AnalysisResult, bool, error)
	Store(ctx context.Context, sessionID string, result domain.AnalysisResult) error
	Delete(ctx context.Context, sessionID string) error
}
