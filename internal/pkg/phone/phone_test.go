package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parentheses and spaces", "(555) 123-4567", "5551234567"},
		{"dashes only", "555-123-4567", "5551234567"},
		{"spaces only", "555 123 4567", "5551234567"},
		{"already normalized", "5551234567", "5551234567"},
		{"plus prefix kept", "+1 (555) 123-4567", "+15551234567"},
		{"tabs and newlines", "555\t123\n4567", "5551234567"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize("(555) 123-4567")
	assert.Equal(t, once, Normalize(once))
}
