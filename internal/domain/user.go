package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	PhoneNumber string         `db:"phone_number" json:"phone_number"`
	DisplayName sql.NullString `db:"display_name" json:"display_name"`
	Email       sql.NullString `db:"email" json:"email"`
	CityID      *uuid.UUID     `db:"city_id" json:"city_id"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
