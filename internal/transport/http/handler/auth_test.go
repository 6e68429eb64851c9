package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookworm-api/internal/domain"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) RequestOTP(ctx context.Context, rawPhone string) (bool, error) {
	args := m.Called(ctx, rawPhone)
	return args.Bool(0), args.Error(1)
}

func (m *mockAuthService) VerifyOTP(ctx context.Context, rawPhone, code string) (string, *domain.User, error) {
	args := m.Called(ctx, rawPhone, code)
	var u *domain.User
	if v := args.Get(1); v != nil {
		u = v.(*domain.User)
	}
	return args.String(0), u, args.Error(2)
}

func TestRequestOTP_OK(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("RequestOTP", mock.Anything, "+15551234567").Return(true, nil)

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/request-otp",
		strings.NewReader(`{"phone":"+15551234567"}`))
	rec := httptest.NewRecorder()

	h.RequestOTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body RequestOTPEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.IsNewUser)
	assert.Equal(t, "OTP sent successfully", body.Message)
	svc.AssertExpectations(t)
}

func TestRequestOTP_InvalidBody(t *testing.T) {
	h := NewAuthHandler(new(mockAuthService))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/request-otp",
		strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	h.RequestOTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestOTP_MissingPhone(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("RequestOTP", mock.Anything, "").
		Return(false, domain.ErrBadRequest)

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/request-otp",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.RequestOTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTP_OK(t *testing.T) {
	user := &domain.User{UserID: "usr-1", Username: "user_123456", PhoneNumber: "+15551234567"}
	svc := new(mockAuthService)
	svc.On("VerifyOTP", mock.Anything, "+15551234567", "123456").
		Return("signed.jwt.token", user, nil)

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
		strings.NewReader(`{"phone":"+15551234567","otp":"123456"}`))
	rec := httptest.NewRecorder()

	h.VerifyOTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body VerifyOTPEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed.jwt.token", body.Token)
	require.NotNil(t, body.User)
	assert.Equal(t, "usr-1", body.User.UserID)
	svc.AssertExpectations(t)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("VerifyOTP", mock.Anything, "+15551234567", "000000").
		Return("", nil, domain.ErrInvalidOTP)

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
		strings.NewReader(`{"phone":"+15551234567","otp":"000000"}`))
	rec := httptest.NewRecorder()

	h.VerifyOTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body MessageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
}

func TestVerifyOTP_Expired(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("VerifyOTP", mock.Anything, "+15551234567", "123456").
		Return("", nil, domain.ErrOTPExpired)

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
		strings.NewReader(`{"phone":"+15551234567","otp":"123456"}`))
	rec := httptest.NewRecorder()

	h.VerifyOTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
