package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/gigs-work/backend/internal/domain"
)

type phoneVerificationRepository struct {
	db *sqlx.DB
}

func newPhoneVerificationRepository(db *sqlx.DB) *phoneVerificationRepository {
	return &phoneVerificationRepository{
		db: db,
	}
}

func (r *phoneVerificationRepository) Create(ctx context.Context, verification *domain.PhoneVerification) error {
	const op = "repository.phoneVerification.Create"

	const query = `
    INSERT INTO phone_verification (id, phone_number, verification_id, provider, auto, confirmed, confirmed_at)
    VALUES (uuid_to_bin(:id), :phone_number, :verification_id, :provider, :auto, :confirmed, :confirmed_at)
    `

	res, err := r.db.NamedExecContext(ctx, query, verification)
	if err != nil {
		return fmt.Errorf("%s: insert phone verification failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *phoneVerificationRepository) GetByVerificationID(ctx context.Context, verificationID string) (*domain.PhoneVerification, error) {
	const op = "repository.phoneVerification.GetByVerificationID"

	const query = `
    SELECT id, phone_number, verification_id, provider, auto, attempts, confirmed, confirmed_at, created_at, updated_at, deleted_at
    FROM phone_verification
    WHERE verification_id = ?
    ORDER BY created_at DESC
    LIMIT 1
    `

	var verification domain.PhoneVerification
	if err := r.db.GetContext(ctx, &verification, query, verificationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select phone verification failed: %w", op, err)
	}

	return &verification, nil
}

func (r *phoneVerificationRepository) UpdateConfirmed(ctx context.Context, verification *domain.PhoneVerification) error {
	const op = "repository.phoneVerification.UpdateConfirmed"

	const query = `
    UPDATE phone_verification
    SET confirmed = ?, confirmed_at = ?
    WHERE id = uuid_to_bin(?)
    `

	res, err := r.db.ExecContext(ctx, query, verification.Confirmed, verification.ConfirmedAt, verification.ID)
	if err != nil {
		return fmt.Errorf("%s: update phone_verification failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *phoneVerificationRepository) IncrementAttempts(ctx context.Context, verificationID string) error {
	const op = "repository.phoneVerification.IncrementAttempts"

	const query = `
    UPDATE phone_verification SET attempts = attempts + 1 WHERE verification_id = ?
    `

	if _, err := r.db.ExecContext(ctx, query, verificationID); err != nil {
		return fmt.Errorf("%s: update phone_verification failed: %w", op, err)
	}

	return nil
}
