package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/models"
	"github.com/tukang/tukang-api/internal/repository"
)

type WorkerService struct {
	workers WorkerStore
	logger  *logrus.Logger
}

func NewWorkerService(workers WorkerStore, logger *logrus.Logger) *WorkerService {
	return &WorkerService{
		workers: workers,
		logger:  logger,
	}
}

// AddSkill records a pending skill, creating the worker profile on first use.
func (s *WorkerService) AddSkill(ctx context.Context, userID, skillName, certificateURL string) (*models.WorkerSkill, error) {
	skill := &models.WorkerSkill{
		SkillName:          skillName,
		CertificateURL:     certificateURL,
		VerificationStatus: models.SkillStatusPending,
	}
	if err := s.workers.AddSkill(ctx, userID, skill); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to add skill: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"skill_id": skill.ID,
	}).Info("Worker skill submitted")
	return skill, nil
}

type SubmitInitialInput struct {
	UserID         string
	KTPURL         string
	Address        string
	SkillName      string
	CertificateURL string
}

// SubmitInitial stores identity documents, puts the account under review and
// adds the first pending skill.
func (s *WorkerService) SubmitInitial(ctx context.Context, in SubmitInitialInput) error {
	info := &models.WorkerInfo{
		UserID:        in.UserID,
		Address:       &in.Address,
		KTPURL:        &in.KTPURL,
		AccountStatus: models.AccountStatusPending,
	}
	skill := &models.WorkerSkill{
		SkillName:          in.SkillName,
		CertificateURL:     in.CertificateURL,
		VerificationStatus: models.SkillStatusPending,
	}

	if err := s.workers.SubmitInitial(ctx, info, skill); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to submit worker verification: %w", err)
	}

	s.logger.WithField("user_id", in.UserID).Info("Worker verification submitted")
	return nil
}

func (s *WorkerService) VerifySkill(ctx context.Context, skillID string, status models.SkillStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	if err := s.workers.UpdateSkillStatus(ctx, skillID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("failed to verify skill: %w", err)
	}
	return nil
}

// VerifyAccount sets the account decision and applies it to every skill
// still pending. Skills already decided keep their status.
func (s *WorkerService) VerifyAccount(ctx context.Context, userID string, status models.AccountStatus) error {
	if status != models.AccountStatusVerified && status != models.AccountStatusRejected {
		return ErrInvalidStatus
	}

	n, err := s.workers.SetAccountStatus(ctx, userID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkerNotFound
		}
		return fmt.Errorf("failed to verify account: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":        userID,
		"status":         status,
		"skills_updated": n,
	}).Info("Worker account verified")
	return nil
}
