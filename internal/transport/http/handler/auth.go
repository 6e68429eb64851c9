package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookworm-api/internal/application/auth"
)

// AuthHandler handles the OTP login flow endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	isNewUser, err := h.svc.RequestOTP(r.Context(), body.Phone)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestOTPEnvelope{
		Message:   "OTP sent successfully",
		IsNewUser: isNewUser,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, user, err := h.svc.VerifyOTP(r.Context(), body.Phone, body.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyOTPEnvelope{Token: token, User: user})
}
