package domain

import "time"

// User is an account provisioned lazily on first successful OTP verification.
// PhoneNumber is the table partition key, which makes phone uniqueness a real
// constraint rather than a read-then-write convention.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	PhoneNumber  string    `json:"phoneNumber" dynamodbav:"phone_number"`
	Username     string    `json:"username" dynamodbav:"username"`
	ProfileImage string    `json:"profileImage" dynamodbav:"profile_image"`
	Password     string    `json:"-" dynamodbav:"password"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
}
