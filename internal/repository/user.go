package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gigs-work/backend/internal/db"
	"github.com/gigs-work/backend/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func newUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
	INSERT INTO user
	(id, phone_number, display_name, email, city_id)
	VALUES(uuid_to_bin(?), ?, ?, ?, uuid_to_bin(?));
	`

	var cityID interface{}
	if user.CityID != nil {
		cityID = user.CityID.String()
	}

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.PhoneNumber,
		user.DisplayName.String,
		user.Email.String,
		cityID,
	)

	if err != nil {
		//nolint:errorlint
		if mysqlError, ok := err.(*mysql.MySQLError); ok && mysqlError.Number == db.DuplicateEntry {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("db insert user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *userRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	const query = `
	SELECT id, phone_number, display_name, email, city_id, created_at, updated_at, deleted_at FROM user WHERE phone_number = ? AND deleted_at IS NULL;
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, phoneNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from user by phone number failed: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
	SELECT id, phone_number, display_name, email, city_id, created_at, updated_at, deleted_at FROM user WHERE id = uuid_to_bin(?);
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from user by id failed: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string, email string, cityID *uuid.UUID) error {
	const query = `
	UPDATE user SET display_name = ?, email = ?, city_id = uuid_to_bin(?) WHERE id = uuid_to_bin(?);
	`

	var city interface{}
	if cityID != nil {
		city = cityID.String()
	}

	_, err := r.db.ExecContext(ctx, query, displayName, email, city, userID)
	if err != nil {
		return fmt.Errorf("update user by id failed: %w", err)
	}
	return nil
}
