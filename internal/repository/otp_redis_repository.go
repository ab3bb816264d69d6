package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/models"
)

// RedisOTPRepository keeps the single live code per email under
// otp:<email>. Writing a new code replaces the previous one, which is how
// earlier codes get invalidated.
type RedisOTPRepository struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisOTPRepository(client *redis.Client, logger *logrus.Logger) *RedisOTPRepository {
	return &RedisOTPRepository{
		client: client,
		logger: logger,
	}
}

func redisOTPKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}

func (r *RedisOTPRepository) Issue(ctx context.Context, otp *models.OTP) error {
	otp.ID = uuid.New().String()
	otp.CreatedAt = time.Now()
	otp.Used = false

	dataJSON, err := json.Marshal(otp)
	if err != nil {
		return fmt.Errorf("failed to marshal OTP data: %w", err)
	}

	ttl := time.Until(otp.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("OTP already expired at %s", otp.ExpiresAt.Format(time.RFC3339))
	}

	if err := r.client.Set(ctx, redisOTPKey(otp.Email), dataJSON, ttl).Err(); err != nil {
		r.logger.WithError(err).WithField("email", otp.Email).Error("Failed to store OTP in Redis")
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	return nil
}

func decodeRedisOTP(dataJSON []byte) (*models.OTP, error) {
	var otp models.OTP
	if err := json.Unmarshal(dataJSON, &otp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OTP data: %w", err)
	}
	return &otp, nil
}

func (r *RedisOTPRepository) get(ctx context.Context, email string) (*models.OTP, error) {
	dataJSON, err := r.client.Get(ctx, redisOTPKey(email)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}
	return decodeRedisOTP(dataJSON)
}

func (r *RedisOTPRepository) FindValid(ctx context.Context, email, code string, now time.Time) (*models.OTP, error) {
	otp, err := r.get(ctx, email)
	if err != nil {
		return nil, err
	}

	if otp.Code != code || !otp.Valid(now) {
		return nil, ErrNotFound
	}
	return otp, nil
}

// MarkUsed flips the used flag inside a WATCH transaction. A code that is
// gone, replaced or already used returns ErrNotFound, as does losing a race
// with a concurrent consumer.
func (r *RedisOTPRepository) MarkUsed(ctx context.Context, otp *models.OTP) error {
	key := redisOTPKey(otp.Email)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		dataJSON, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get OTP: %w", err)
		}

		stored, err := decodeRedisOTP(dataJSON)
		if err != nil {
			return err
		}
		if stored.ID != otp.ID || stored.Used {
			return ErrNotFound
		}

		stored.Used = true
		updated, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal OTP data: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		otp.Used = true
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}
}
