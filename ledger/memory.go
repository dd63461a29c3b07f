package ledger

import (
	"context"
	"sync"
)

// Memory is an in-process ledger. History is lost on exit.
type Memory struct {
	mu      sync.RWMutex
	records []DrawRecord
}

func NewMemory(records ...DrawRecord) *Memory {
	m := &Memory{}
	m.records = append(m.records, records...)
	return m
}

func (m *Memory) Append(_ context.Context, rec DrawRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *Memory) All(_ context.Context) ([]DrawRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r := make([]DrawRecord, len(m.records))
	copy(r, m.records)
	return r, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

func (m *Memory) Close() error { return nil }
