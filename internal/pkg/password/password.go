package password

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewPlaceholder generates a random 16-character hex value. Authentication is
// OTP-based, so the password field only satisfies the persistence schema; the
// value is random so it can never be used as a working credential.
func NewPlaceholder() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate placeholder password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
