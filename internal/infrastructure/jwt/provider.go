package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/bookworm-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Expired tokens get a distinct error so the
// middleware can tell clients to re-authenticate rather than retry.
var (
	ErrExpired   = errors.New("token expired")
	ErrInvalid   = errors.New("token invalid")
	ErrMalformed = errors.New("token malformed")
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens with a process-wide
// secret. Verification is stateless: signature plus expiry check, no
// server-side session lookup.
type Provider struct {
	secret []byte
	expiry time.Duration

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &Provider{
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTExpiry,
		now:    time.Now,
	}, nil
}

// Sign issues a token binding userID, valid from now for the configured window.
func (p *Provider) Sign(userID string) (string, error) {
	now := p.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks signature and expiry and returns the claims.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return p.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrMalformed)
	}
	return claims, nil
}

// SetClock overrides the provider's time source. Tests only.
func (p *Provider) SetClock(now func() time.Time) { p.now = now }
