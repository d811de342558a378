package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConfirmationCode is an emailed one-time code. Only the bcrypt hash is kept.
type ConfirmationCode struct {
	BaseSimple
	UserID      uuid.UUID `db:"user_id"`
	CodeHash    string    `db:"code_hash"`
	Fingerprint string    `db:"fingerprint"`
	ExpiresAt   time.Time `db:"expires_at"`
	IsUsed      bool      `db:"is_used"`
}
