package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Keys of the local store.
const (
	KeyPosts        = "posts"
	KeySubscribers  = "subscribers"
	KeySiteContacts = "siteContacts"
	KeyPageLogs     = "pageLogs"
	KeySession      = "session"
)

// KeyValue is the local persistence adapter: flat string keys holding
// JSON documents. It is demo storage for a single writer; concurrent
// processes sharing one backend are last-write-wins.
type KeyValue interface {
	// Save overwrites the slot with the JSON encoding of value.
	Save(ctx context.Context, key string, value any) error
	// Get decodes the slot into dst. Missing and undecodable slots both
	// report false with a nil error.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Remove clears the slot. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

func encode(key string, value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("error encoding %q: %w", key, err)
	}
	return payload, nil
}

func decode(payload []byte, dst any) bool {
	if !json.Valid(payload) {
		return false
	}
	return json.Unmarshal(payload, dst) == nil
}

type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, key string, value any) error {
	payload, err := encode(key, value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.slots[key] = payload
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	payload, ok := m.slots[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return decode(payload, dst), nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.slots, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) putRaw(key string, payload []byte) {
	m.mu.Lock()
	m.slots[key] = payload
	m.mu.Unlock()
}
