package storage

import (
	"context"

	"github.com/local-legends/npc-engine/pkg/session"
)

// SessionStore defines the interface for durable game session state.
//
// The store owns the durable representation; loaded sessions are
// request-scoped copies. No locking is applied: concurrent saves for
// the same id race and the later write fully replaces the earlier one.
type SessionStore interface {
	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error

	// CreateSession allocates and persists a new session. An empty id
	// means "generate one".
	CreateSession(ctx context.Context, id string) (*session.GameSession, error)

	// LoadSession retrieves a session by id. Returns nil when the
	// session doesn't exist or its record is unreadable.
	LoadSession(ctx context.Context, id string) (*session.GameSession, error)

	// SaveSession overwrites the durable record with a full snapshot.
	SaveSession(ctx context.Context, sess *session.GameSession) error

	// GetOrCreateSession loads the session, creating it on miss.
	GetOrCreateSession(ctx context.Context, id string) (*session.GameSession, error)

	// DeleteSession removes a session by id.
	DeleteSession(ctx context.Context, id string) error
}
