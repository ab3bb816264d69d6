package handlers

import (
	"context"

	"github.com/tukang/tukang-api/internal/models"
	"github.com/tukang/tukang-api/internal/service"
)

type OTPService interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
}

type AccountService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	AdminUpdateUser(ctx context.Context, userID string, upd models.UserUpdate) (*models.User, error)
	AdminResetPassword(ctx context.Context, userID string) error
	DefaultResetPassword() string
	AdminDeleteUser(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ChangeProfile(ctx context.Context, userID, fullName, phoneNumber string) error
	ChangeLocation(ctx context.Context, userID string, latitude, longitude float64, isWorking *bool) error
}

type WorkerService interface {
	AddSkill(ctx context.Context, userID, skillName, certificateURL string) (*models.WorkerSkill, error)
	SubmitInitial(ctx context.Context, in service.SubmitInitialInput) error
	VerifySkill(ctx context.Context, skillID string, status models.SkillStatus) error
	VerifyAccount(ctx context.Context, userID string, status models.AccountStatus) error
}
