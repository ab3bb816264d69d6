package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/config"
	"github.com/tukang/tukang-api/internal/mailer"
	"github.com/tukang/tukang-api/internal/models"
	"github.com/tukang/tukang-api/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type OTPService struct {
	store  OTPStore
	mailer mailer.Mailer
	cfg    *config.OTPConfig
	logger *logrus.Logger

	now      func() time.Time
	generate func() (string, error)
}

func NewOTPService(store OTPStore, m mailer.Mailer, cfg *config.OTPConfig, logger *logrus.Logger) *OTPService {
	return &OTPService{
		store:    store,
		mailer:   m,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		generate: generateRandomOTP,
	}
}

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Send issues a fresh code for email, invalidating any unused earlier one,
// and mails it. The record stays stored when delivery fails.
func (s *OTPService) Send(ctx context.Context, email string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}

	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	otp := &models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.cfg.Expiry),
	}
	if err := s.store.Issue(ctx, otp); err != nil {
		return fmt.Errorf("%w: %v", ErrOTPNotStored, err)
	}

	if err := s.mailer.SendOTP(ctx, email, code, s.cfg.Expiry); err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}

	s.logger.WithField("email", email).Info("OTP sent")
	return nil
}

// Verify consumes a matching, unexpired code.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	otp, err := s.Lookup(ctx, email, code)
	if err != nil {
		return err
	}
	return s.Consume(ctx, otp)
}

// Lookup finds a redeemable code without consuming it.
func (s *OTPService) Lookup(ctx context.Context, email, code string) (*models.OTP, error) {
	otp, err := s.store.FindValid(ctx, email, code, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to look up OTP: %w", err)
	}
	return otp, nil
}

// Consume redeems a code returned by Lookup. Losing the race to another
// caller redeeming the same code returns ErrInvalidOTP.
func (s *OTPService) Consume(ctx context.Context, otp *models.OTP) error {
	if err := s.store.MarkUsed(ctx, otp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("failed to consume OTP: %w", err)
	}
	return nil
}

// generateRandomOTP returns a six digit code in 100000-999999.
func generateRandomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
