package models

import (
	"time"

	"github.com/google/uuid"
)

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           uuid.UUID  `json:"uuid"`
	Role         string     `json:"role"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	MiddleName   *string    `json:"middle_name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone"`
	PasswordHash []byte     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at"`
}

// Deleted reports whether the user has been soft-deleted.
func (u User) Deleted() bool {
	return u.DeletedAt != nil
}
