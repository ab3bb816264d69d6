package models

import "time"

type AccountStatus string

const (
	AccountStatusNone     AccountStatus = "none"
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusVerified AccountStatus = "verified"
	AccountStatusRejected AccountStatus = "rejected"
)

type SkillStatus string

const (
	SkillStatusPending  SkillStatus = "pending"
	SkillStatusVerified SkillStatus = "verified"
	SkillStatusRejected SkillStatus = "rejected"
)

func (s SkillStatus) Valid() bool {
	switch s {
	case SkillStatusPending, SkillStatusVerified, SkillStatusRejected:
		return true
	}
	return false
}

type WorkerInfo struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Address       *string       `json:"address"`
	KTPURL        *string       `json:"ktp_url"`
	AccountStatus AccountStatus `json:"account_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type WorkerSkill struct {
	ID                 string      `json:"id"`
	WorkerID           string      `json:"worker_id"`
	SkillName          string      `json:"skill_name"`
	CertificateURL     string      `json:"certificate_url"`
	VerificationStatus SkillStatus `json:"verification_status"`
	CreatedAt          time.Time   `json:"created_at"`
}
