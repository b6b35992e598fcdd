package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// Session is the server-held identity attached to a client token. The role
// is the one resolved at login; role edits take effect at the next login.
type Session struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"nombre_usuario"`
	Role     string `json:"tipo_usuario"`
}

// Cache is the key-value surface the session store needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionStore maps opaque tokens to sessions. Implementations must treat an
// unknown or expired token as (nil, nil), not as an error.
type SessionStore interface {
	Create(ctx context.Context, sess Session) (token string, err error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions in redis with a TTL. Sessions do not
// survive a redis flush, which matches the ephemeral contract.
type RedisSessionStore struct {
	cache Cache
	ttl   time.Duration
}

var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a session store with the given lifetime.
func NewRedisSessionStore(cache Cache, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: cache, ttl: ttl}
}

// Create mints an unguessable token and stores the session under it.
func (s *RedisSessionStore) Create(ctx context.Context, sess Session) (string, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	token := uuid.New().String()
	if err := s.cache.Set(ctx, sessionKeyPrefix+token, payload, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get resolves a token. Unknown or expired tokens yield (nil, nil).
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	data, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete invalidates a token. Idempotent.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.Delete(ctx, sessionKeyPrefix+token)
}
