package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/agro-market-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrDuplicatePhone is the ErrAlreadyExists returned when a user's phone is
// already taken.
var ErrDuplicatePhone = fmt.Errorf("%w: phone", ErrAlreadyExists)

// Store owns the database handle. It is constructed once in main and passed
// to the services that need it.
type Store interface {
	// WithinTx runs fn inside a single transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Users() UserStore
	RefreshTokens() RefreshTokenStore
	Buyers() BuyerStore
	Farmers() FarmerStore
}

// UserStore captures persistence operations on users. Lookups return a nil
// user and a nil error when nothing matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) (bool, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
}

// RefreshTokenStore records issued refresh tokens.
type RefreshTokenStore interface {
	Create(ctx context.Context, userID uuid.UUID, token string) (models.RefreshToken, error)
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
}

// BuyerStore persists buyer profiles.
type BuyerStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Buyer, error)
	Create(ctx context.Context, buyer models.Buyer) (models.Buyer, error)
}

// FarmerStore persists farmer profiles.
type FarmerStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Farmer, error)
	Create(ctx context.Context, farmer models.Farmer) (models.Farmer, error)
}
