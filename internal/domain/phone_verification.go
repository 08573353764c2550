package domain

import (
	"time"

	"github.com/google/uuid"
)

// PhoneVerification - журнальная запись об одной попытке подтверждения номера.
// Живое состояние попытки хранится в Redis, сюда пишется итог.
type PhoneVerification struct {
	ID             uuid.UUID  `db:"id"`
	PhoneNumber    string     `db:"phone_number"`
	VerificationID string     `db:"verification_id"`
	Provider       string     `db:"provider"` // identity provider that issued the code
	Auto           bool       `db:"auto"`     // confirmed without user-entered code
	Attempts       int        `db:"attempts"`
	Confirmed      bool       `db:"confirmed"`
	ConfirmedAt    *time.Time `db:"confirmed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}
