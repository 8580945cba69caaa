package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/local-legends/npc-engine/pkg/session"
)

// MockSessionStore is an in-memory SessionStore for testing. It keeps
// the serialized form so equality checks exercise the same round trip
// as the Redis store.
type MockSessionStore struct {
	mu        sync.RWMutex
	sessions  map[string][]byte
	pingError error
	saveError error
	SaveCalls []string // session ids in save order
}

// Ensure MockSessionStore implements SessionStore interface
var _ SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates a new mock session store
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string][]byte),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockSessionStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockSessionStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockSessionStore) Close() error {
	return nil
}

func (m *MockSessionStore) CreateSession(ctx context.Context, id string) (*session.GameSession, error) {
	sess := session.NewGameSession(id)
	if err := m.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *MockSessionStore) LoadSession(ctx context.Context, id string) (*session.GameSession, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var sess session.GameSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, nil // malformed records read as absent
	}
	return &sess, nil
}

func (m *MockSessionStore) SaveSession(ctx context.Context, sess *session.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveError != nil {
		return m.saveError
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	m.sessions[sess.SessionID] = data
	m.SaveCalls = append(m.SaveCalls, sess.SessionID)
	return nil
}

func (m *MockSessionStore) GetOrCreateSession(ctx context.Context, id string) (*session.GameSession, error) {
	if id != "" {
		sess, err := m.LoadSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			return sess, nil
		}
	}
	return m.CreateSession(ctx, id)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// PutRaw stores a raw record for a session id, bypassing
// serialization. Tests use it to plant malformed records.
func (m *MockSessionStore) PutRaw(id string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = data
}
