package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// SessionTTL is the default session TTL (40 minutes)
const SessionTTL = 40 * time.Minute

// ErrSessionNotFound is returned when a session is missing or has expired
var ErrSessionNotFound = errors.New("session not found")

// Storage keeps one value per session ID. Values are stored as snapshots: mutating a
// value after Set or Get does not affect what is stored.
type Storage[T any] interface {
	Get(ctx context.Context, sessionID string) (T, error)
	Set(ctx context.Context, sessionID string, value T) error
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
	Close() error
}

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

// MemoryStorage is an in-memory implementation for development and tests
type MemoryStorage[T any] struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStorage creates a new in-memory storage. A non-positive ttl keeps
// sessions until they are deleted.
func NewMemoryStorage[T any](ttl time.Duration) *MemoryStorage[T] {
	return &MemoryStorage[T]{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get retrieves a session by ID
func (m *MemoryStorage[T]) Get(ctx context.Context, sessionID string) (T, error) {
	var value T

	m.mu.Lock()
	entry, exists := m.sessions[sessionID]
	if exists && m.expired(entry) {
		delete(m.sessions, sessionID)
		exists = false
	}
	m.mu.Unlock()

	if !exists {
		return value, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if err := sonic.Unmarshal(entry.data, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return value, nil
}

func (m *MemoryStorage[T]) expired(entry memoryEntry) bool {
	return m.ttl > 0 && m.now().Sub(entry.updatedAt) > m.ttl
}

// Set saves or updates a session and refreshes its TTL
func (m *MemoryStorage[T]) Set(ctx context.Context, sessionID string, value T) error {
	if sessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = memoryEntry{data: data, updatedAt: m.now()}
	return nil
}

// Delete removes a session
func (m *MemoryStorage[T]) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Len returns the number of live sessions
func (m *MemoryStorage[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for id, entry := range m.sessions {
		if m.expired(entry) {
			delete(m.sessions, id)
			continue
		}
		count++
	}
	return count
}

// Ping always succeeds
func (m *MemoryStorage[T]) Ping(ctx context.Context) error {
	return nil
}

// Close drops every session
func (m *MemoryStorage[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.sessions)
	return nil
}
