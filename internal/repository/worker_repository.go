package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/models"
)

type WorkerRepository struct {
	db     DB
	logger *logrus.Logger
}

func NewWorkerRepository(db DB, logger *logrus.Logger) *WorkerRepository {
	return &WorkerRepository{
		db:     db,
		logger: logger,
	}
}

func insertSkill(ctx context.Context, q Querier, skill *models.WorkerSkill) error {
	row := q.QueryRow(ctx, `
		INSERT INTO worker_skills (worker_id, skill_name, certificate_url, verification_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, skill.WorkerID, skill.SkillName, skill.CertificateURL, skill.VerificationStatus)
	if err := row.Scan(&skill.ID, &skill.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert skill: %w", err)
	}
	return nil
}

// AddSkill inserts skill for the worker owned by userID, creating the
// worker_info row first when the user has none. An unknown user returns
// ErrNotFound.
func (r *WorkerRepository) AddSkill(ctx context.Context, userID string, skill *models.WorkerSkill) error {
	err := r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		var workerID string
		err := tx.QueryRow(ctx, `SELECT id FROM worker_info WHERE user_id = $1`, userID).Scan(&workerID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = tx.QueryRow(ctx,
				`INSERT INTO worker_info (user_id) VALUES ($1) RETURNING id`,
				userID,
			).Scan(&workerID)
		}
		if err != nil {
			return err
		}

		skill.WorkerID = workerID
		return insertSkill(ctx, tx, skill)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		r.logger.WithError(err).WithField("user_id", userID).Error("Failed to add worker skill")
		return fmt.Errorf("failed to add skill: %w", err)
	}
	return nil
}

// SubmitInitial upserts the worker's identity data with status pending and
// inserts the first skill in the same transaction.
func (r *WorkerRepository) SubmitInitial(ctx context.Context, info *models.WorkerInfo, skill *models.WorkerSkill) error {
	err := r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO worker_info (user_id, address, ktp_url, account_status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET address = EXCLUDED.address,
			    ktp_url = EXCLUDED.ktp_url,
			    account_status = EXCLUDED.account_status,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at
		`, info.UserID, info.Address, info.KTPURL, info.AccountStatus)
		if err := row.Scan(&info.ID, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return fmt.Errorf("failed to upsert worker info: %w", err)
		}

		skill.WorkerID = info.ID
		return insertSkill(ctx, tx, skill)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		r.logger.WithError(err).WithField("user_id", info.UserID).Error("Failed to submit worker verification")
		return fmt.Errorf("failed to submit worker verification: %w", err)
	}
	return nil
}

func (r *WorkerRepository) UpdateSkillStatus(ctx context.Context, skillID string, status models.SkillStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE worker_skills SET verification_status = $2 WHERE id = $1`,
		skillID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update skill status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAccountStatus sets the worker's account_status and moves every skill
// still pending to the same status. It returns how many skills changed.
func (r *WorkerRepository) SetAccountStatus(ctx context.Context, userID string, status models.AccountStatus) (int64, error) {
	var transitioned int64
	err := r.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		var workerID string
		err := tx.QueryRow(ctx, `
			UPDATE worker_info
			SET account_status = $2, updated_at = NOW()
			WHERE user_id = $1
			RETURNING id
		`, userID, status).Scan(&workerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to update account status: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE worker_skills
			SET verification_status = $2
			WHERE worker_id = $1 AND verification_status = $3
		`, workerID, status, models.SkillStatusPending)
		if err != nil {
			return fmt.Errorf("failed to update pending skills: %w", err)
		}
		transitioned = tag.RowsAffected()
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.WithError(err).WithField("user_id", userID).Error("Failed to verify worker account")
		}
		return 0, err
	}
	return transitioned, nil
}
