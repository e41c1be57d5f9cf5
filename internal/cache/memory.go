package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/wordle-solver/internal/entropy"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]Entry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[string]Entry)}
}

func (m *MemoryStore) Get(ctx context.Context, language, key string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[language][key]
	if !ok {
		return Entry{}, false, nil
	}
	e.Scores = append([]entropy.Score(nil), e.Scores...)
	return e, true, nil
}

func (m *MemoryStore) Put(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.Scores = append([]entropy.Score(nil), e.Scores...)
	e.Rows = len(e.Scores)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[e.Language] == nil {
		m.entries[e.Language] = make(map[string]Entry)
	}
	m.entries[e.Language][e.Key] = e
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, language, key string) error {
	m.mu.Lock()
	delete(m.entries[language], key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, language string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries[language])
	delete(m.entries, language)
	return n, nil
}

// Len returns the number of entries of a language.
func (m *MemoryStore) Len(language string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries[language])
}
