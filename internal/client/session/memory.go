package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
)

// MemoryStore is a process-local Store. It forgets everything on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	sess models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Set(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sess.IsZero() {
		return models.Session{}, nil
	}
	return m.sess, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = models.Session{}
	return nil
}
