package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps bodies in process memory. Used for local development and
// tests.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]string
	public  map[string]bool

	// FailSave, when set, is returned by every Save call.
	FailSave error
}

func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://content"
	}
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string]string),
		public:  make(map[string]bool),
	}
}

func (m *MemoryStore) Save(_ context.Context, path, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return "", m.FailSave
	}
	m.objects[path] = content
	return objectURL(m.baseURL, "", path), nil
}

func (m *MemoryStore) MakePublic(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[path]; !ok {
		return fmt.Errorf("memory store: object %s not found", path)
	}
	m.public[path] = true
	return nil
}

func (m *MemoryStore) PublicURL(path string) string {
	return objectURL(m.baseURL, "", path)
}

// Get returns a stored body and whether it has been made public.
func (m *MemoryStore) Get(path string) (content string, public bool, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok = m.objects[path]
	return content, m.public[path], ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
