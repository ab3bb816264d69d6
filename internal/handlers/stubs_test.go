package handlers

import (
	"context"

	"github.com/tukang/tukang-api/internal/models"
	"github.com/tukang/tukang-api/internal/service"
)

type stubOTPService struct {
	sendErr   error
	verifyErr error
	sentTo    string
}

func (s *stubOTPService) Send(_ context.Context, email string) error {
	s.sentTo = email
	return s.sendErr
}

func (s *stubOTPService) Verify(_ context.Context, _, _ string) error {
	return s.verifyErr
}

type stubAccountService struct {
	user        *models.User
	err         error
	lastUpdate  models.UserUpdate
	lastWorking *bool
	lastLat     float64
	register    service.RegisterInput
}

func (s *stubAccountService) Register(_ context.Context, in service.RegisterInput) (*models.User, error) {
	s.register = in
	return s.user, s.err
}

func (s *stubAccountService) Login(_ context.Context, _, _ string) (*models.User, error) {
	return s.user, s.err
}

func (s *stubAccountService) AdminUpdateUser(_ context.Context, _ string, upd models.UserUpdate) (*models.User, error) {
	s.lastUpdate = upd
	return s.user, s.err
}

func (s *stubAccountService) AdminResetPassword(context.Context, string) error { return s.err }

func (s *stubAccountService) DefaultResetPassword() string { return "12345678" }

func (s *stubAccountService) AdminDeleteUser(context.Context, string) error { return s.err }

func (s *stubAccountService) ChangePassword(context.Context, string, string, string) error {
	return s.err
}

func (s *stubAccountService) ChangeProfile(context.Context, string, string, string) error {
	return s.err
}

func (s *stubAccountService) ChangeLocation(_ context.Context, _ string, latitude, _ float64, isWorking *bool) error {
	s.lastLat = latitude
	s.lastWorking = isWorking
	return s.err
}

type stubWorkerService struct {
	err           error
	skillStatus   models.SkillStatus
	accountStatus models.AccountStatus
}

func (s *stubWorkerService) AddSkill(context.Context, string, string, string) (*models.WorkerSkill, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.WorkerSkill{ID: "skill-1"}, nil
}

func (s *stubWorkerService) SubmitInitial(context.Context, service.SubmitInitialInput) error {
	return s.err
}

func (s *stubWorkerService) VerifySkill(_ context.Context, _ string, status models.SkillStatus) error {
	s.skillStatus = status
	return s.err
}

func (s *stubWorkerService) VerifyAccount(_ context.Context, _ string, status models.AccountStatus) error {
	s.accountStatus = status
	return s.err
}
