// Package redisinfra holds the Redis-backed OTP store, used when the service
// runs as more than one instance and pending codes must be shared.
package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bookworm-api/internal/config"
	"github.com/bookworm-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// Entries outlive their business expiry by this grace window so verification
// of a stale code can still report "expired" instead of "unknown phone".
const expiredGrace = time.Hour

// OTPStore stores pending codes under otp:<normalized phone>, one per phone.
type OTPStore struct {
	client *redis.Client

	now func() time.Time
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client, now: time.Now}
}

func (s *OTPStore) Put(ctx context.Context, phone, code string, ttl time.Duration) error {
	entry := domain.PendingOTP{
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal pending OTP: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+phone, data, ttl+expiredGrace).Err()
}

func (s *OTPStore) Get(ctx context.Context, phone string) (*domain.PendingOTP, error) {
	data, err := s.client.Get(ctx, keyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("no pending OTP for phone: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("otp store get: %w", err)
	}
	var entry domain.PendingOTP
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal pending OTP: %w", err)
	}
	return &entry, nil
}

func (s *OTPStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, keyPrefix+phone).Err()
}
