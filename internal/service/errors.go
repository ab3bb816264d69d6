package service

import "errors"

var (
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrOTPNotStored      = errors.New("failed to store OTP")
	ErrInvalidOTP        = errors.New("OTP is invalid or expired")
	ErrAlreadyRegistered = errors.New("email or phone number already registered")
	ErrRoleNotAllowed    = errors.New("role not open for registration")
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("wrong password")
	ErrWrongOldPassword  = errors.New("old password does not match")
	ErrPhoneTaken        = errors.New("phone number already in use")
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrSkillNotFound     = errors.New("skill not found")
	ErrInvalidStatus     = errors.New("invalid status")
)
