package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/models"
)

const userColumns = `
	id, email, phone_number, full_name, password_hash, is_verified, user_role,
	daily_rate, latitude, longitude, is_working, created_at, updated_at`

type UserRepository struct {
	db     DB
	logger *logrus.Logger
}

func NewUserRepository(db DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PhoneNumber,
		&u.FullName,
		&u.PasswordHash,
		&u.IsVerified,
		&u.Roles,
		&u.DailyRate,
		&u.Latitude,
		&u.Longitude,
		&u.IsWorking,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts u and fills in its generated columns. A clash on email or
// phone number returns ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, phone_number, full_name, password_hash, is_verified, user_role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.PhoneNumber, u.FullName, u.PasswordHash, u.IsVerified, u.Roles)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.logger.WithError(err).Error("Failed to create user in PostgreSQL")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, err
}

// GetVerifiedByIdentifier looks a verified user up by email or phone number.
// An identifier matching more than one user (one's email, another's phone)
// is ambiguous and returns ErrNotFound.
func (r *UserRepository) GetVerifiedByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE (email = $1 OR phone_number = $1)
		  AND is_verified = TRUE
		LIMIT 2
	`, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	defer rows.Close()

	var found []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		found = append(found, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if len(found) != 1 {
		if len(found) > 1 {
			r.logger.WithField("identifier", identifier).Warn("Login identifier matches more than one user")
		}
		return nil, ErrNotFound
	}
	return found[0], nil
}

// Update writes the non-nil fields of upd and returns the stored row.
func (r *UserRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 4)
	args := []interface{}{id}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.PhoneNumber != nil {
		add("phone_number", *upd.PhoneNumber)
	}
	if upd.DailyRate != nil {
		add("daily_rate", *upd.DailyRate)
	}
	sets = append(sets, "updated_at = NOW()")

	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrNotFound
		case isUniqueViolation(err):
			return nil, ErrDuplicate
		}
		r.logger.WithError(err).WithField("user_id", id).Error("Failed to update user in PostgreSQL")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLocation stores coordinates; isWorking is only written when non-nil.
func (r *UserRepository) UpdateLocation(ctx context.Context, id string, latitude, longitude float64, isWorking *bool) error {
	var (
		q    string
		args []interface{}
	)
	if isWorking != nil {
		q = `UPDATE users SET latitude = $2, longitude = $3, is_working = $4, updated_at = NOW() WHERE id = $1`
		args = []interface{}{id, latitude, longitude, *isWorking}
	} else {
		q = `UPDATE users SET latitude = $2, longitude = $3, updated_at = NOW() WHERE id = $1`
		args = []interface{}{id, latitude, longitude}
	}

	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", id).Error("Failed to delete user in PostgreSQL")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
