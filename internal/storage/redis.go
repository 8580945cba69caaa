package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/local-legends/npc-engine/pkg/session"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore implements SessionStore using Redis. Session
// records are stored as JSON under session:<id> with no expiry; no
// retention policy is defined for stored sessions.
type RedisSessionStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisSessionStore implements SessionStore interface
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a new Redis-backed session store.
func NewRedisSessionStore(redisURL string, logger *slog.Logger) (*RedisSessionStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisSessionStore{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisSessionStore) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisSessionStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisSessionStore) CreateSession(ctx context.Context, id string) (*session.GameSession, error) {
	sess := session.NewGameSession(id)

	if err := r.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	r.logger.Info("Created session", "session_id", sess.SessionID)
	return sess, nil
}

func (r *RedisSessionStore) LoadSession(ctx context.Context, id string) (*session.GameSession, error) {
	key := sessionKeyPrefix + id
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Debug("Session not found", "session_id", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Debug("Session not found", "session_id", id)
		return nil, nil
	}

	var sess session.GameSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		// A record we can't read is treated the same as a missing one.
		r.logger.Error("Discarding malformed session record", "session_id", id, "error", err)
		return nil, nil
	}

	return &sess, nil
}

func (r *RedisSessionStore) SaveSession(ctx context.Context, sess *session.GameSession) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		r.logger.Error("Failed to marshal session", "session_id", sess.SessionID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Full snapshot overwrite; last write wins. Keys never expire.
	key := sessionKeyPrefix + sess.SessionID
	cmd := r.client.Set(ctx, key, string(data), 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save session", "session_id", sess.SessionID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisSessionStore) GetOrCreateSession(ctx context.Context, id string) (*session.GameSession, error) {
	if id != "" {
		sess, err := r.LoadSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			return sess, nil
		}
	}

	return r.CreateSession(ctx, id)
}

func (r *RedisSessionStore) DeleteSession(ctx context.Context, id string) error {
	key := sessionKeyPrefix + id
	cmd := r.client.Del(ctx, key)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete session", "session_id", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
