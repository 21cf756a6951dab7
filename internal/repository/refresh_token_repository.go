package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshTokenNotFound signals an unknown, expired or revoked refresh token.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

const refreshTokenPrefix = "refresh:"

// RefreshTokenRepository persists opaque refresh credentials. Expiry is
// enforced by the store TTL.
type RefreshTokenRepository interface {
	Store(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type refreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository returns a Redis-backed implementation.
func NewRefreshTokenRepository(client *redis.Client) RefreshTokenRepository {
	return &refreshTokenRepository{client: client}
}

func (r *refreshTokenRepository) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, refreshTokenPrefix+token, userID, ttl).Err()
}

// Lookup resolves a refresh token to its user id.
func (r *refreshTokenRepository) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, refreshTokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrRefreshTokenNotFound
		}
		return "", err
	}
	return userID, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	return r.client.Del(ctx, refreshTokenPrefix+token).Err()
}
