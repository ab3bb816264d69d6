package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/service"
)

const (
	msgUserNotFound = "User tidak ditemukan"
	msgPhoneTaken   = "Nomor HP sudah terdaftar"
)

// AccountHandlers serves the self-service endpoints of a logged-in user.
type AccountHandlers struct {
	accountService AccountService
	logger         *logrus.Logger
}

func NewAccountHandlers(accountService AccountService, logger *logrus.Logger) *AccountHandlers {
	return &AccountHandlers{
		accountService: accountService,
		logger:         logger,
	}
}

type ChangePasswordRequest struct {
	UserID      string `json:"userId" validate:"required,uuid"`
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type ChangeProfileRequest struct {
	UserID      string `json:"userId" validate:"required,uuid"`
	FullName    string `json:"fullName" validate:"required,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=20"`
}

type ChangeLocationRequest struct {
	UserID    string   `json:"userId" validate:"required,uuid"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	IsWorking *bool    `json:"isWorking"`
}

func (h *AccountHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeRequest(w, r, &req, msgIncomplete) {
		return
	}

	err := h.accountService.ChangePassword(r.Context(), req.UserID, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		respondWithSuccess(w, "Password berhasil diubah")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, service.ErrWrongOldPassword):
		respondWithError(w, http.StatusBadRequest, "Password lama salah")
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to change password")
		respondWithError(w, http.StatusInternalServerError, "Gagal mengubah password")
	}
}

func (h *AccountHandlers) ChangeProfile(w http.ResponseWriter, r *http.Request) {
	var req ChangeProfileRequest
	if !decodeRequest(w, r, &req, msgIncomplete) {
		return
	}

	err := h.accountService.ChangeProfile(r.Context(), req.UserID, req.FullName, req.PhoneNumber)
	switch {
	case err == nil:
		respondWithSuccess(w, "Profil berhasil diubah")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, service.ErrPhoneTaken):
		respondWithError(w, http.StatusBadRequest, msgPhoneTaken)
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to change profile")
		respondWithError(w, http.StatusInternalServerError, "Gagal mengubah profil")
	}
}

func (h *AccountHandlers) ChangeLocation(w http.ResponseWriter, r *http.Request) {
	var req ChangeLocationRequest
	if !decodeRequest(w, r, &req, msgIncomplete) {
		return
	}

	err := h.accountService.ChangeLocation(r.Context(), req.UserID, *req.Latitude, *req.Longitude, req.IsWorking)
	switch {
	case err == nil:
		respondWithSuccess(w, "Lokasi berhasil diubah")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to change location")
		respondWithError(w, http.StatusInternalServerError, "Gagal mengubah lokasi")
	}
}
