package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ConfirmationCodeRepository interface {
	Create(ctx context.Context, code *entity.ConfirmationCode) error
	// FindLatestValid returns the newest unused, unexpired code of the user.
	FindLatestValid(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error)
	// MarkAsUsed reports false when the code was already consumed.
	MarkAsUsed(ctx context.Context, id uuid.UUID) (bool, error)
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
}

type confirmationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationCodeRepository(db database.PgxIface, log *zap.Logger) ConfirmationCodeRepository {
	return &confirmationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation_code")),
	}
}

func (r *confirmationCodeRepository) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, fingerprint,
		                                expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.Fingerprint,
		code.ExpiresAt,
		code.IsUsed,
		code.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("create confirmation code for %s: %w", code.UserID.String(), err)
	}

	return nil
}

func (r *confirmationCodeRepository) FindLatestValid(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, fingerprint, expires_at, is_used, created_at
		FROM confirmation_codes
		WHERE user_id = $1
		  AND is_used = false
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var code entity.ConfirmationCode
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&code.ID,
		&code.UserID,
		&code.CodeHash,
		&code.Fingerprint,
		&code.ExpiresAt,
		&code.IsUsed,
		&code.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid confirmation code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find valid confirmation code for %s: %w", userID.String(), err)
	}

	return &code, nil
}

func (r *confirmationCodeRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE confirmation_codes SET is_used = true WHERE id = $1 AND is_used = false`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark confirmation code as used",
			zap.Error(err),
			zap.String("code_id", id.String()),
		)
		return false, fmt.Errorf("mark confirmation code %s as used: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *confirmationCodeRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE confirmation_codes SET is_used = true WHERE user_id = $1 AND is_used = false`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		r.log.Error("Failed to invalidate confirmation codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("invalidate confirmation codes of %s: %w", userID.String(), err)
	}

	return nil
}
