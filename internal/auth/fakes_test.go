// Copyright (c) 2026 Quillora. All rights reserved.

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/quillora/quillora/internal/auth"
	"github.com/quillora/quillora/internal/platform/apperr"
)

// discardLogger silences structured logging in unit tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryUserRepository is an in-memory UserRepository for service tests.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *user
	return &clone, nil
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.PasswordHash = &newHash
	return nil
}

// memoryRefreshTokenRepository is an in-memory RefreshTokenRepository.
//
// failNextDelete simulates losing a concurrent rotation race: the next Delete
// call reports deleted=false as if another rotation already won.
type memoryRefreshTokenRepository struct {
	mu             sync.Mutex
	tokens         map[string]*auth.RefreshToken
	failNextDelete bool
}

func newMemoryRefreshTokenRepository() *memoryRefreshTokenRepository {
	return &memoryRefreshTokenRepository{tokens: make(map[string]*auth.RefreshToken)}
}

func (repo *memoryRefreshTokenRepository) Insert(_ context.Context, token *auth.RefreshToken) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.tokens[token.Token]; exists {
		return apperr.Conflict("Refresh token already exists")
	}
	clone := *token
	repo.tokens[token.Token] = &clone
	return nil
}

func (repo *memoryRefreshTokenRepository) FindByToken(_ context.Context, token string) (*auth.RefreshToken, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	record, ok := repo.tokens[token]
	if !ok {
		return nil, apperr.NotFound("Refresh token")
	}
	clone := *record
	return &clone, nil
}

func (repo *memoryRefreshTokenRepository) Delete(_ context.Context, token string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.failNextDelete {
		repo.failNextDelete = false
		return false, nil
	}

	_, existed := repo.tokens[token]
	delete(repo.tokens, token)
	return existed, nil
}

func (repo *memoryRefreshTokenRepository) DeleteByUser(_ context.Context, userID string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var count int64
	for value, record := range repo.tokens {
		if record.UserID == userID {
			delete(repo.tokens, value)
			count++
		}
	}
	return count, nil
}

func (repo *memoryRefreshTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var count int64
	for value, record := range repo.tokens {
		if record.ExpiresAt.Before(now) {
			delete(repo.tokens, value)
			count++
		}
	}
	return count, nil
}

func (repo *memoryRefreshTokenRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.tokens)
}

// memoryResetTokenRepository is an in-memory ResetTokenRepository. TTLs are
// recorded but not enforced; expiry behaviour is covered by the Redis
// implementation tests.
type memoryResetTokenRepository struct {
	mu     sync.Mutex
	values map[string]string // token → userID
}

func newMemoryResetTokenRepository() *memoryResetTokenRepository {
	return &memoryResetTokenRepository{values: make(map[string]string)}
}

func (repo *memoryResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.values[token] = userID
	return nil
}

func (repo *memoryResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	userID, ok := repo.values[token]
	if !ok {
		return "", apperr.NotFound("Reset token")
	}
	return userID, nil
}

func (repo *memoryResetTokenRepository) Delete(_ context.Context, token string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.values, token)
	return nil
}
