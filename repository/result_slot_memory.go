package repository

import (
	"context"
	"sync"

	"synergy-engine/domain"
)

// ResultSlotMemory is an in-memory implementation of ResultSlot.
type ResultSlotMemory struct {
	mu   sync.RWMutex
	data map[string]domain.AnalysisResult
}

// NewResultSlotMemory creates an empty in-memory result slot.
func NewResultSlotMemory() *ResultSlotMemory {
	return &ResultSlotMemory{
		data: make(map[string]domain.AnalysisResult),
	}
}

func (m *ResultSlotMemory) Load(_ context.Context, sessionID string) (domain.AnalysisResult, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[sessionID]
	return val, ok, nil
}

func (m *ResultSlotMemory) Store(_ context.Context, sessionID string, result domain.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = result
	return nil
}

func (m *ResultSlotMemory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}
