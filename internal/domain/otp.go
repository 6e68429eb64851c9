package domain

import "time"

// PendingOTP is a one-time code awaiting verification, keyed by normalized
// phone number. At most one pending entry exists per phone; issuing a new
// code overwrites the previous one. Entries live only in the OTP store
// (memory or Redis), never in DynamoDB.
type PendingOTP struct {
	Phone     string
	Code      string
	ExpiresAt time.Time
}
