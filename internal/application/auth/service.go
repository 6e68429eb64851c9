package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/bookworm-api/internal/domain"
	"github.com/bookworm-api/internal/pkg/avatar"
	"github.com/bookworm-api/internal/pkg/id"
	"github.com/bookworm-api/internal/pkg/password"
	"github.com/bookworm-api/internal/pkg/phone"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// RequestOTP issues a fresh code for the phone, overwriting any pending
	// one, and reports whether the phone belongs to a not-yet-provisioned user.
	RequestOTP(ctx context.Context, rawPhone string) (isNewUser bool, err error)
	// VerifyOTP consumes a pending code exactly once and returns a session
	// token plus the (possibly newly provisioned) user.
	VerifyOTP(ctx context.Context, rawPhone, code string) (token string, user *domain.User, err error)
}

type otpStore interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (*domain.PendingOTP, error)
	Delete(ctx context.Context, phone string) error
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type tokenSigner interface {
	Sign(userID string) (string, error)
}

type service struct {
	otps          otpStore
	users         userStore
	sms           smsSender // nil in dev: the code is logged instead of sent
	signer        tokenSigner
	otpTTL        time.Duration
	reserved      map[string]string
	avatarBaseURL string

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

type ServiceDeps struct {
	OTPStore      otpStore
	UserRepo      userStore
	SMSSender     smsSender
	TokenSigner   tokenSigner
	OTPTTL        time.Duration
	Reserved      map[string]string
	AvatarBaseURL string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otps:          deps.OTPStore,
		users:         deps.UserRepo,
		sms:           deps.SMSSender,
		signer:        deps.TokenSigner,
		otpTTL:        deps.OTPTTL,
		reserved:      deps.Reserved,
		avatarBaseURL: deps.AvatarBaseURL,
		now:           time.Now,
	}
}

func (s *service) RequestOTP(ctx context.Context, rawPhone string) (bool, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" {
		return false, fmt.Errorf("phone number is required: %w", domain.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return false, err
	}
	if err := s.otps.Put(ctx, normalized, code, s.otpTTL); err != nil {
		return false, fmt.Errorf("store OTP: %w", err)
	}

	if s.sms != nil {
		// Delivery failure is not fatal: the code is stored and the client
		// can hit resend.
		if err := s.sms.SendSMS(ctx, normalized, "Your Bookworm verification code is "+code); err != nil {
			slog.Warn("failed to send OTP SMS", "phone", normalized, "err", err)
		}
	} else {
		slog.Info("OTP generated (SMS sender not configured)", "phone", normalized, "code", code)
	}

	_, err = s.users.GetByPhone(ctx, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (s *service) VerifyOTP(ctx context.Context, rawPhone, code string) (string, *domain.User, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" || code == "" {
		return "", nil, fmt.Errorf("phone number and OTP are required: %w", domain.ErrBadRequest)
	}

	entry, err := s.otps.Get(ctx, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, fmt.Errorf("invalid OTP or phone number: %w", domain.ErrInvalidOTP)
	}
	if err != nil {
		return "", nil, err
	}

	// Mismatch keeps the pending entry so the user can retry within the
	// window; only expiry purges it.
	if entry.Code != code {
		return "", nil, fmt.Errorf("invalid OTP: %w", domain.ErrInvalidOTP)
	}
	if s.now().After(entry.ExpiresAt) {
		if err := s.otps.Delete(ctx, normalized); err != nil {
			slog.Warn("failed to delete expired OTP", "phone", normalized, "err", err)
		}
		return "", nil, fmt.Errorf("OTP has expired: %w", domain.ErrOTPExpired)
	}

	// One successful verification per issued code.
	if err := s.otps.Delete(ctx, normalized); err != nil {
		slog.Warn("failed to delete consumed OTP", "phone", normalized, "err", err)
	}

	u, err := s.users.GetByPhone(ctx, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = s.provisionUser(ctx, normalized)
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, u, nil
}

// provisionUser creates the User record for a first-time phone. The
// conditional create loses cleanly when two verifications race: the loser
// fetches the row the winner just wrote.
func (s *service) provisionUser(ctx context.Context, normalizedPhone string) (*domain.User, error) {
	username, ok := s.reserved[normalizedPhone]
	if !ok {
		username = "user_" + timestampSuffix(s.now())
	}

	placeholder, err := password.NewPlaceholder()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(placeholder), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		UserID:       id.New(),
		PhoneNumber:  normalizedPhone,
		Username:     username,
		ProfileImage: avatar.URL(s.avatarBaseURL, username),
		Password:     string(hash),
		CreatedAt:    s.now().UTC(),
	}
	err = s.users.Create(ctx, u)
	if errors.Is(err, domain.ErrConflict) {
		return s.users.GetByPhone(ctx, normalizedPhone)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("provisioned new user", "user_id", u.UserID, "username", username)
	return u, nil
}

// generateCode draws a uniform 6-digit code, leading zeros preserved.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// timestampSuffix returns the low-order six digits of the unix-milli clock,
// the same username synthesis the mobile app expects for unreserved phones.
func timestampSuffix(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) <= 6 {
		return ms
	}
	return ms[len(ms)-6:]
}
