package service

import (
	"context"
	"time"

	"github.com/tukang/tukang-api/internal/models"
)

// OTPStore is implemented by the Postgres, Redis and DynamoDB repositories.
// FindValid and MarkUsed report a missing record as repository.ErrNotFound.
type OTPStore interface {
	Issue(ctx context.Context, otp *models.OTP) error
	FindValid(ctx context.Context, email, code string, now time.Time) (*models.OTP, error)
	MarkUsed(ctx context.Context, otp *models.OTP) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetVerifiedByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLocation(ctx context.Context, id string, latitude, longitude float64, isWorking *bool) error
	Delete(ctx context.Context, id string) error
}

type WorkerStore interface {
	AddSkill(ctx context.Context, userID string, skill *models.WorkerSkill) error
	SubmitInitial(ctx context.Context, info *models.WorkerInfo, skill *models.WorkerSkill) error
	UpdateSkillStatus(ctx context.Context, skillID string, status models.SkillStatus) error
	SetAccountStatus(ctx context.Context, userID string, status models.AccountStatus) (int64, error)
}
