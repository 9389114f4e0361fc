package db

import (
	"errors"
	"fmt"
	"sync"

	"badminton-eval-go/config"
)

// ErrBlobNotFound is returned by BlobStore.Load when nothing has been persisted yet.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore holds the single serialized snapshot of the gradebook.
type BlobStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Delete() error
}

// NewBlobStore builds the backend selected in cfg. The returned close func
// releases backend resources and is never nil.
func NewBlobStore(cfg *config.Config) (BlobStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendFile:
		return NewFileBlobStore(cfg.Storage.Path), noop, nil
	case config.BackendMemory:
		return NewMemoryBlobStore(), noop, nil
	case config.BackendRedis:
		client, err := InitializeRedisClient(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisService(client, cfg.Storage.Key), client.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// MemoryBlobStore keeps the blob in process memory.
type MemoryBlobStore struct {
	mu   sync.Mutex
	data []byte
	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{}
}

func (m *MemoryBlobStore) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrBlobNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryBlobStore) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

func (m *MemoryBlobStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
