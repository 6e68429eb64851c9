package http

import (
	"context"
	"time"

	"github.com/bookworm-api/internal/domain"
	"github.com/bookworm-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/bookworm-api/internal/infrastructure/jwt"
	s3infra "github.com/bookworm-api/internal/infrastructure/s3"
	"github.com/bookworm-api/internal/infrastructure/sns"
)

// OTPStore is the pending-code store the auth service runs against. Two
// implementations exist: an in-process map for single-instance deployments
// and a Redis-backed one for multi-instance ones.
type OTPStore interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (*domain.PendingOTP, error)
	Delete(ctx context.Context, phone string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	BookRepo    *dynamo.BookRepo
	OTPStore    OTPStore
	S3Store     *s3infra.Store
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}
