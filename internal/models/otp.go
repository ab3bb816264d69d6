package models

import "time"

type OTP struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Code      string    `json:"code" dynamodbav:"code"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at"`
	Used      bool      `json:"used" dynamodbav:"used"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Valid reports whether the code can still be redeemed at now.
// A code expiring exactly at now is still accepted.
func (o *OTP) Valid(now time.Time) bool {
	return !o.Used && !now.After(o.ExpiresAt)
}
