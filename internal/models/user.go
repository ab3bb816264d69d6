package models

import (
	"time"
)

const (
	RoleWorker   = "worker"
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	IsVerified   bool      `json:"is_verified"`
	Roles        []string  `json:"user_role"`
	DailyRate    *float64  `json:"daily_rate"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	IsWorking    bool      `json:"is_working"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	FullName    *string
	PhoneNumber *string
	DailyRate   *float64
}

func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.PhoneNumber == nil && u.DailyRate == nil
}
