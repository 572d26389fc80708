package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// MaxLoginAttempts failed logins lock an email out for LoginLockout
	MaxLoginAttempts = 5
	LoginLockout     = 15 * time.Minute
)

// TokenStore remembers revoked JWTs until they expire and counts failed
// logins per email.
type TokenStore interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) bool
	// RegisterFailedLogin increments the counter and returns the new value
	RegisterFailedLogin(ctx context.Context, email string) (int64, error)
	FailedLogins(ctx context.Context, email string) int64
	ResetFailedLogins(ctx context.Context, email string) error
}

// NewTokenStore uses Redis when a client is available and process memory otherwise
func NewTokenStore(client *redis.Client) TokenStore {
	if client == nil {
		return NewMemoryTokenStore()
	}
	return &RedisTokenStore{client: client}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

func attemptsKey(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

type RedisTokenStore struct {
	client *redis.Client
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, tokenKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked fails open when Redis errors; the token signature and expiry
// are still enforced by the JWT middleware
func (s *RedisTokenStore) IsRevoked(ctx context.Context, token string) bool {
	n, err := s.client.Exists(ctx, tokenKey(token)).Result()
	return err == nil && n > 0
}

func (s *RedisTokenStore) RegisterFailedLogin(ctx context.Context, email string) (int64, error) {
	key := attemptsKey(email)
	attempts, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if attempts == 1 {
		s.client.Expire(ctx, key, LoginLockout)
	}
	return attempts, nil
}

func (s *RedisTokenStore) FailedLogins(ctx context.Context, email string) int64 {
	n, err := s.client.Get(ctx, attemptsKey(email)).Int64()
	if err != nil {
		// redis.Nil means no failures recorded
		return 0
	}
	return n
}

func (s *RedisTokenStore) ResetFailedLogins(ctx context.Context, email string) error {
	return s.client.Del(ctx, attemptsKey(email)).Err()
}

type attempt struct {
	count   int64
	expires time.Time
}

// MemoryTokenStore is the single instance fallback used when Redis is down and in tests
type MemoryTokenStore struct {
	mu       sync.Mutex
	revoked  map[string]time.Time
	attempts map[string]attempt
	now      func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		revoked:  make(map[string]time.Time),
		attempts: make(map[string]attempt),
		now:      time.Now,
	}
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenKey(token)] = until
	return nil
}

func (s *MemoryTokenStore) IsRevoked(_ context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tokenKey(token)
	until, ok := s.revoked[key]
	if !ok {
		return false
	}
	if s.now().After(until) {
		delete(s.revoked, key)
		return false
	}
	return true
}

func (s *MemoryTokenStore) RegisterFailedLogin(_ context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptsKey(email)
	a := s.attempts[key]
	if s.now().After(a.expires) {
		a = attempt{expires: s.now().Add(LoginLockout)}
	}
	a.count++
	s.attempts[key] = a
	return a.count, nil
}

func (s *MemoryTokenStore) FailedLogins(_ context.Context, email string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[attemptsKey(email)]
	if !ok || s.now().After(a.expires) {
		return 0
	}
	return a.count
}

func (s *MemoryTokenStore) ResetFailedLogins(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptsKey(email))
	return nil
}
