package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/models"
)

// OTPRepository keeps OTP codes in the otp_codes table.
type OTPRepository struct {
	db     DB
	logger *logrus.Logger
}

func NewOTPRepository(db DB, logger *logrus.Logger) *OTPRepository {
	return &OTPRepository{
		db:     db,
		logger: logger,
	}
}

// Issue marks every unused code for the email as used and inserts otp,
// both in one transaction. otp.ID and otp.CreatedAt are filled in.
func (r *OTPRepository) Issue(ctx context.Context, otp *models.OTP) error {
	err := r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE otp_codes SET used = TRUE WHERE email = $1 AND used = FALSE`,
			otp.Email,
		); err != nil {
			return fmt.Errorf("failed to invalidate previous OTPs: %w", err)
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO otp_codes (email, code, expires_at, used)
			VALUES ($1, $2, $3, FALSE)
			RETURNING id, created_at
		`, otp.Email, otp.Code, otp.ExpiresAt)
		if err := row.Scan(&otp.ID, &otp.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert OTP: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).WithField("email", otp.Email).Error("Failed to store OTP in PostgreSQL")
		return err
	}

	otp.Used = false
	return nil
}

// FindValid returns the newest unused code for email matching code that
// has not expired at now.
func (r *OTPRepository) FindValid(ctx context.Context, email, code string, now time.Time) (*models.OTP, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, code, expires_at, used, created_at
		FROM otp_codes
		WHERE email = $1
		  AND code = $2
		  AND used = FALSE
		  AND expires_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`, email, code, now)

	var otp models.OTP
	if err := row.Scan(&otp.ID, &otp.Email, &otp.Code, &otp.ExpiresAt, &otp.Used, &otp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}

	return &otp, nil
}

// MarkUsed consumes otp. It returns ErrNotFound when the record was already
// used or replaced, so only one caller can redeem a code.
func (r *OTPRepository) MarkUsed(ctx context.Context, otp *models.OTP) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE otp_codes SET used = TRUE WHERE id = $1 AND used = FALSE`,
		otp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	otp.Used = true
	return nil
}
