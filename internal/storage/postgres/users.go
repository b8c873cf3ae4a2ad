package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

const userColumns = `uuid, role, first_name, last_name, middle_name, email, phone, password_hash, created_at, updated_at, deleted_at`

type userRepo struct {
	q querier
}

// Create inserts a new user row.
func (r *userRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.DefaultRole
	}
	query := `
		INSERT INTO users (uuid, role, first_name, last_name, middle_name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns
	row := r.q.QueryRow(ctx, query, user.ID, user.Role, user.FirstName, user.LastName, user.MiddleName, user.Email, user.Phone, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == phoneUniqueIndex {
				return models.User{}, storage.ErrDuplicatePhone
			}
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return *created, nil
}

// FindByEmail fetches a user by email address.
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

// FindByPhone fetches a user by E.164 phone number.
func (r *userRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1 LIMIT 1`, phone)
}

// GetByID fetches a user by id, including soft-deleted rows.
func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE uuid = $1`, id)
}

// UpdatePassword replaces the stored hash and reports whether a row changed.
func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE uuid = $2`, hash, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SoftDelete stamps deleted_at on a live user.
func (r *userRepo) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE uuid = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *userRepo) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Role, &user.FirstName, &user.LastName, &user.MiddleName, &user.Email, &user.Phone, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
