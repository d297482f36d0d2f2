package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_storefront/internal/kv"
)

var errStorageDown = errors.New("storage down")

// mockStorage wraps MemoryStorage and fails on demand.
type mockStorage struct {
	*kv.MemoryStorage
	mu        sync.RWMutex
	failRead  bool
	failWrite bool
	writes    int
}

func newMockStorage() *mockStorage {
	return &mockStorage{MemoryStorage: kv.NewMemoryStorage()}
}

func (m *mockStorage) Read(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	fail := m.failRead
	m.mu.RUnlock()
	if fail {
		return "", errStorageDown
	}
	return m.MemoryStorage.Read(ctx, key)
}

func (m *mockStorage) Write(ctx context.Context, key, value string) error {
	m.mu.Lock()
	fail := m.failWrite
	if !fail {
		m.writes++
	}
	m.mu.Unlock()
	if fail {
		return errStorageDown
	}
	return m.MemoryStorage.Write(ctx, key, value)
}

func (m *mockStorage) setFailWrite(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = v
}

func (m *mockStorage) writeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
