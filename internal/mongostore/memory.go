package mongostore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process Collection used for local runs and tests.
// Documents are kept in insertion order.
type Memory[T any] struct {
	mu    sync.RWMutex
	idOf  func(T) string
	order []string
	docs  map[string]T
}

// NewMemory creates an empty Memory collection. idOf extracts a document's id.
func NewMemory[T any](idOf func(T) string) *Memory[T] {
	return &Memory[T]{idOf: idOf, docs: make(map[string]T)}
}

func (m *Memory[T]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]T, 0, len(m.order))
	for _, id := range m.order {
		docs = append(docs, m.docs[id])
	}
	return docs, nil
}

func (m *Memory[T]) Get(_ context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return doc, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

func (m *Memory[T]) Create(_ context.Context, doc T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.idOf(doc)
	if _, ok := m.docs[id]; ok {
		return fmt.Errorf("inserting %s: duplicate id", id)
	}
	m.docs[id] = doc
	m.order = append(m.order, id)
	return nil
}

func (m *Memory[T]) Replace(_ context.Context, id string, doc T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.docs[id] = doc
	return nil
}

func (m *Memory[T]) Upsert(_ context.Context, id string, doc T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		m.order = append(m.order, id)
	}
	m.docs[id] = doc
	return nil
}

func (m *Memory[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory[T]) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.docs))
	m.docs = make(map[string]T)
	m.order = nil
	return n, nil
}

// EnsureTTL is a no-op: memory documents live until deleted.
func (m *Memory[T]) EnsureTTL(context.Context, string, time.Duration) error {
	return nil
}
