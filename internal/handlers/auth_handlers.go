package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/service"
)

type AuthHandlers struct {
	otpService     OTPService
	accountService AccountService
	logger         *logrus.Logger
}

func NewAuthHandlers(otpService OTPService, accountService AccountService, logger *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{
		otpService:     otpService,
		accountService: accountService,
		logger:         logger,
	}
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	FullName    string `json:"full_name" validate:"required,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	Role        string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (h *AuthHandlers) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if !decodeRequest(w, r, &req, "Email diperlukan") {
		return
	}

	err := h.otpService.Send(r.Context(), req.Email)
	switch {
	case err == nil:
		respondWithSuccess(w, "Kode OTP telah dikirim ke email Anda")
	case errors.Is(err, service.ErrInvalidEmail):
		respondWithError(w, http.StatusBadRequest, "Format email tidak valid")
	case errors.Is(err, service.ErrOTPNotStored):
		h.logger.WithError(err).WithField("email", req.Email).Error("Failed to store OTP")
		respondWithError(w, http.StatusInternalServerError, "Gagal menyimpan OTP")
	default:
		h.logger.WithError(err).WithField("email", req.Email).Error("Failed to send OTP")
		respondWithError(w, http.StatusInternalServerError, "Gagal mengirim OTP")
	}
}

func (h *AuthHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !decodeRequest(w, r, &req, "Email dan OTP diperlukan") {
		return
	}

	err := h.otpService.Verify(r.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		respondWithSuccess(w, "OTP berhasil diverifikasi")
	case errors.Is(err, service.ErrInvalidOTP):
		respondWithError(w, http.StatusBadRequest, "Kode OTP tidak valid atau sudah kadaluarsa")
	default:
		h.logger.WithError(err).WithField("email", req.Email).Error("Failed to verify OTP")
		respondWithError(w, http.StatusInternalServerError, "Gagal memverifikasi OTP")
	}
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, &req, "Semua field wajib diisi (termasuk OTP)") {
		return
	}

	_, err := h.accountService.Register(r.Context(), service.RegisterInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
		Password:    req.Password,
		OTP:         req.OTP,
		Role:        req.Role,
	})
	switch {
	case err == nil:
		respondWithSuccess(w, "Registrasi berhasil")
	case errors.Is(err, service.ErrInvalidOTP):
		respondWithError(w, http.StatusBadRequest, "Kode OTP tidak valid atau sudah kadaluarsa")
	case errors.Is(err, service.ErrAlreadyRegistered):
		respondWithError(w, http.StatusBadRequest, "Email atau Nomor HP sudah terdaftar")
	case errors.Is(err, service.ErrRoleNotAllowed):
		respondWithError(w, http.StatusBadRequest, msgInvalid)
	default:
		h.logger.WithError(err).WithField("email", req.Email).Error("Failed to register user")
		respondWithError(w, http.StatusInternalServerError, "Gagal registrasi")
	}
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req, "Identifier dan password wajib diisi") {
		return
	}

	user, err := h.accountService.Login(r.Context(), req.Identifier, req.Password)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Login berhasil",
			User: &LoginUser{
				ID:       user.ID,
				FullName: user.FullName,
				Role:     user.Roles,
			},
		})
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusUnauthorized, "User tidak ditemukan")
	case errors.Is(err, service.ErrWrongPassword):
		respondWithError(w, http.StatusUnauthorized, "Password salah")
	default:
		h.logger.WithError(err).Error("Failed to log in")
		respondWithError(w, http.StatusInternalServerError, "Gagal login")
	}
}
