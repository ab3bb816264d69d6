package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/models"
	"github.com/tukang/tukang-api/internal/service"
)

const msgUserIDRequired = "User ID diperlukan"

type AdminHandlers struct {
	accountService AccountService
	workerService  WorkerService
	logger         *logrus.Logger
}

func NewAdminHandlers(accountService AccountService, workerService WorkerService, logger *logrus.Logger) *AdminHandlers {
	return &AdminHandlers{
		accountService: accountService,
		workerService:  workerService,
		logger:         logger,
	}
}

// UpdateUserRequest leaves a field untouched when it is empty or, for
// daily_rate, absent.
type UpdateUserRequest struct {
	UserID      string   `json:"userId" validate:"required,uuid"`
	FullName    string   `json:"full_name" validate:"max=255"`
	PhoneNumber string   `json:"phone_number" validate:"max=20"`
	DailyRate   *float64 `json:"daily_rate" validate:"omitempty,gte=0"`
}

type UserIDRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

type VerifySkillRequest struct {
	SkillID string `json:"skillId" validate:"required,uuid"`
	Status  string `json:"status" validate:"required,oneof=verified rejected pending"`
}

type VerifyAccountRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=verified rejected"`
}

func (h *AdminHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !decodeRequest(w, r, &req, msgUserIDRequired) {
		return
	}

	var upd models.UserUpdate
	if req.FullName != "" {
		upd.FullName = &req.FullName
	}
	if req.PhoneNumber != "" {
		upd.PhoneNumber = &req.PhoneNumber
	}
	upd.DailyRate = req.DailyRate

	user, err := h.accountService.AdminUpdateUser(r.Context(), req.UserID, upd)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Profil berhasil diperbarui",
			Data:    user,
		})
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, service.ErrPhoneTaken):
		respondWithError(w, http.StatusBadRequest, msgPhoneTaken)
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to update user")
		respondWithError(w, http.StatusInternalServerError, "Gagal memperbarui profil")
	}
}

func (h *AdminHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req UserIDRequest
	if !decodeRequest(w, r, &req, msgUserIDRequired) {
		return
	}

	err := h.accountService.AdminResetPassword(r.Context(), req.UserID)
	switch {
	case err == nil:
		respondWithSuccess(w, "Password berhasil direset ke "+h.accountService.DefaultResetPassword())
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to reset password")
		respondWithError(w, http.StatusInternalServerError, "Gagal reset password")
	}
}

func (h *AdminHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req UserIDRequest
	if !decodeRequest(w, r, &req, msgUserIDRequired) {
		return
	}

	err := h.accountService.AdminDeleteUser(r.Context(), req.UserID)
	switch {
	case err == nil:
		respondWithSuccess(w, "User berhasil dihapus")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to delete user")
		respondWithError(w, http.StatusInternalServerError, "Gagal menghapus user")
	}
}

func (h *AdminHandlers) VerifySkill(w http.ResponseWriter, r *http.Request) {
	var req VerifySkillRequest
	if !decodeRequest(w, r, &req, msgInvalid) {
		return
	}

	err := h.workerService.VerifySkill(r.Context(), req.SkillID, models.SkillStatus(req.Status))
	switch {
	case err == nil:
		respondWithSuccess(w, fmt.Sprintf("Status keahlian diubah menjadi %s", req.Status))
	case errors.Is(err, service.ErrInvalidStatus):
		respondWithError(w, http.StatusBadRequest, msgInvalid)
	case errors.Is(err, service.ErrSkillNotFound):
		respondWithError(w, http.StatusNotFound, "Keahlian tidak ditemukan")
	default:
		h.logger.WithError(err).WithField("skill_id", req.SkillID).Error("Failed to verify skill")
		respondWithError(w, http.StatusInternalServerError, "Gagal verifikasi")
	}
}

func (h *AdminHandlers) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req VerifyAccountRequest
	if !decodeRequest(w, r, &req, msgInvalid) {
		return
	}

	err := h.workerService.VerifyAccount(r.Context(), req.UserID, models.AccountStatus(req.Status))
	switch {
	case err == nil:
		respondWithSuccess(w, fmt.Sprintf("Akun dan keahlian berhasil di-%s", req.Status))
	case errors.Is(err, service.ErrInvalidStatus):
		respondWithError(w, http.StatusBadRequest, msgInvalid)
	case errors.Is(err, service.ErrWorkerNotFound):
		respondWithError(w, http.StatusNotFound, "Data pekerja tidak ditemukan")
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to verify worker account")
		respondWithError(w, http.StatusInternalServerError, "Gagal verifikasi")
	}
}
