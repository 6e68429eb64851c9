package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookworm-api/internal/domain"
)

// httpError maps domain sentinel errors to HTTP status codes in one place.
// Anything unrecognized is an internal failure and must not leak details.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, errMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, errMessage(err))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, errMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, errMessage(err))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, errMessage(err))
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// errMessage strips the trailing sentinel annotation ("...: bad request")
// from wrapped errors so clients see only the business message.
func errMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrBadRequest, domain.ErrInvalidOTP, domain.ErrOTPExpired,
		domain.ErrUnauthorized, domain.ErrForbidden, domain.ErrNotFound, domain.ErrConflict,
	} {
		suffix := ": " + sentinel.Error()
		if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
			return msg[:len(msg)-len(suffix)]
		}
	}
	return msg
}
