// Copyright (c) 2026 Quillora. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillora/quillora/internal/platform/apperr"
	"github.com/quillora/quillora/internal/platform/constants"
)

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
//
// Reset tokens are pure TTL data: Redis evicts them on expiry without any
// sweeping on our side, which is why they do not live in PostgreSQL next to
// the refresh tokens.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

// Set stores a reset token with its associated userID and TTL.
func (repository *RedisResetTokenRepository) Set(ctx context.Context, token string, userID string, ttl time.Duration) error {
	key := constants.RedisPrefixResetToken + token

	if err := repository.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

// Get retrieves the userID for a given token.
//
// Returns [apperr.NotFound] if the token is absent or expired — Redis expiry
// and explicit deletion are indistinguishable to the caller.
func (repository *RedisResetTokenRepository) Get(ctx context.Context, token string) (string, error) {
	key := constants.RedisPrefixResetToken + token

	userID, err := repository.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	return userID, nil
}

// Delete removes a reset token after successful use.
func (repository *RedisResetTokenRepository) Delete(ctx context.Context, token string) error {
	key := constants.RedisPrefixResetToken + token

	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}
