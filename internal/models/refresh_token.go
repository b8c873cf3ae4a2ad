package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one issued refresh token. Rows are only ever inserted.
type RefreshToken struct {
	ID        uuid.UUID `json:"uuid"`
	UserID    uuid.UUID `json:"user_uuid"`
	Token     string    `json:"-"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
