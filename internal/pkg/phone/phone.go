package phone

import "strings"

// Normalize strips whitespace and the characters '(', ')', '-' from a phone
// number, yielding the canonical key used everywhere a phone is looked up or
// stored. Clients apply the same rule, so "(555) 123-4567", "555-123-4567"
// and "555 123 4567" all collapse to "5551234567".
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '\t', '\n', '\r', '(', ')', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
