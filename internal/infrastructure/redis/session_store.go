package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"paynex/internal/domain/user"
	"paynex/internal/shared/auth"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps opaque session secrets. Keys are the SHA-256 of the
// secret; values are the owning user id; expiry is the session max age.
type SessionStore struct {
	client goredis.Cmdable
	maxAge time.Duration
}

// Ensure SessionStore implements user.SessionStore
var _ user.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client goredis.Cmdable, maxAge time.Duration) *SessionStore {
	return &SessionStore{client: client, maxAge: maxAge}
}

func sessionKey(secret string) string {
	return sessionKeyPrefix + auth.HashSessionSecret(secret)
}

// Create issues a new session for userID.
func (s *SessionStore) Create(ctx context.Context, userID string) (*user.Session, error) {
	secret, err := auth.NewSessionSecret()
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, sessionKey(secret), userID, s.maxAge).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &user.Session{
		Secret:    secret,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.maxAge),
	}, nil
}

// Resolve returns the user id owning secret, or user.ErrSessionNotFound.
func (s *SessionStore) Resolve(ctx context.Context, secret string) (string, error) {
	if secret == "" {
		return "", user.ErrSessionNotFound
	}

	userID, err := s.client.Get(ctx, sessionKey(secret)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", user.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, nil
}

// Delete removes the session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, secret string) error {
	if secret == "" {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(secret)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
