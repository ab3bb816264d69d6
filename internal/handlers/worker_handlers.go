package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/service"
)

type WorkerHandlers struct {
	workerService WorkerService
	logger        *logrus.Logger
}

func NewWorkerHandlers(workerService WorkerService, logger *logrus.Logger) *WorkerHandlers {
	return &WorkerHandlers{
		workerService: workerService,
		logger:        logger,
	}
}

type AddSkillRequest struct {
	UserID         string `json:"userId" validate:"required,uuid"`
	SkillName      string `json:"skillName" validate:"required,max=255"`
	CertificateURL string `json:"certificateUrl" validate:"required,url"`
}

type SubmitInitialRequest struct {
	UserID         string `json:"userId" validate:"required,uuid"`
	KTPURL         string `json:"ktpUrl" validate:"required,url"`
	Address        string `json:"address" validate:"required"`
	SkillName      string `json:"skillName" validate:"required,max=255"`
	CertificateURL string `json:"certificateUrl" validate:"required,url"`
}

func (h *WorkerHandlers) AddSkill(w http.ResponseWriter, r *http.Request) {
	var req AddSkillRequest
	if !decodeRequest(w, r, &req, msgIncomplete) {
		return
	}

	_, err := h.workerService.AddSkill(r.Context(), req.UserID, req.SkillName, req.CertificateURL)
	switch {
	case err == nil:
		respondWithSuccess(w, "Keahlian berhasil ditambahkan dan menunggu verifikasi")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to add skill")
		respondWithError(w, http.StatusInternalServerError, "Gagal menambahkan keahlian")
	}
}

func (h *WorkerHandlers) SubmitInitial(w http.ResponseWriter, r *http.Request) {
	var req SubmitInitialRequest
	if !decodeRequest(w, r, &req, msgIncomplete) {
		return
	}

	err := h.workerService.SubmitInitial(r.Context(), service.SubmitInitialInput{
		UserID:         req.UserID,
		KTPURL:         req.KTPURL,
		Address:        req.Address,
		SkillName:      req.SkillName,
		CertificateURL: req.CertificateURL,
	})
	switch {
	case err == nil:
		respondWithSuccess(w, "Verifikasi berhasil dikirim. Mohon tunggu persetujuan admin.")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, msgUserNotFound)
	default:
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to submit worker verification")
		respondWithError(w, http.StatusInternalServerError, "Gagal mengirim data")
	}
}
