package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/config"
	"github.com/tukang/tukang-api/internal/models"
	"github.com/tukang/tukang-api/internal/repository"
)

type AccountService struct {
	users  UserStore
	otp    *OTPService
	cfg    *config.AuthConfig
	logger *logrus.Logger
}

func NewAccountService(users UserStore, otp *OTPService, cfg *config.AuthConfig, logger *logrus.Logger) *AccountService {
	return &AccountService{
		users:  users,
		otp:    otp,
		cfg:    cfg,
		logger: logger,
	}
}

type RegisterInput struct {
	Email       string
	PhoneNumber string
	FullName    string
	Password    string
	OTP         string
	Role        string
}

// Register creates a verified user once the OTP checks out. The code is
// consumed only after the user row exists.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !slices.Contains(s.cfg.RegisterRoles, in.Role) {
		return nil, ErrRoleNotAllowed
	}

	otp, err := s.otp.Lookup(ctx, in.Email, in.OTP)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		FullName:     in.FullName,
		PasswordHash: hash,
		IsVerified:   true,
		Roles:        []string{in.Role},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.otp.Consume(ctx, otp); err != nil {
		// The account exists; an unconsumed code still expires on its own.
		s.logger.WithError(err).WithField("email", in.Email).Warn("Failed to mark OTP used after registration")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    in.Role,
	}).Info("User registered")
	return user, nil
}

// Login matches identifier against email or phone number of verified users.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.users.GetVerifiedByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// AdminUpdateUser applies the non-nil fields of upd and returns the stored user.
func (s *AccountService) AdminUpdateUser(ctx context.Context, userID string, upd models.UserUpdate) (*models.User, error) {
	user, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		return nil, s.mapUserErr(err, "failed to update user")
	}
	return user, nil
}

// AdminResetPassword sets the user's password to the configured default.
func (s *AccountService) AdminResetPassword(ctx context.Context, userID string) error {
	hash, err := hashPassword(s.cfg.DefaultResetPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return s.mapUserErr(err, "failed to reset password")
	}

	s.logger.WithField("user_id", userID).Info("Password reset to default")
	return nil
}

// DefaultResetPassword is the password AdminResetPassword assigns.
func (s *AccountService) DefaultResetPassword() string {
	return s.cfg.DefaultResetPassword
}

func (s *AccountService) AdminDeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return s.mapUserErr(err, "failed to delete user")
	}

	s.logger.WithField("user_id", userID).Info("User deleted")
	return nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return s.mapUserErr(err, "failed to find user")
	}

	if !checkPassword(user.PasswordHash, oldPassword) {
		return ErrWrongOldPassword
	}

	hash, err := hashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return s.mapUserErr(err, "failed to change password")
	}
	return nil
}

func (s *AccountService) ChangeProfile(ctx context.Context, userID, fullName, phoneNumber string) error {
	_, err := s.users.Update(ctx, userID, models.UserUpdate{
		FullName:    &fullName,
		PhoneNumber: &phoneNumber,
	})
	if err != nil {
		return s.mapUserErr(err, "failed to change profile")
	}
	return nil
}

// ChangeLocation stores coordinates and, when isWorking is non-nil, the
// working flag.
func (s *AccountService) ChangeLocation(ctx context.Context, userID string, latitude, longitude float64, isWorking *bool) error {
	if err := s.users.UpdateLocation(ctx, userID, latitude, longitude, isWorking); err != nil {
		return s.mapUserErr(err, "failed to change location")
	}
	return nil
}

func (s *AccountService) mapUserErr(err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrPhoneTaken
	}
	return fmt.Errorf("%s: %w", action, err)
}
