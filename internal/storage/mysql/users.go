package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

const userColumns = `uuid, role, first_name, last_name, middle_name, email, phone, password_hash, created_at, updated_at, deleted_at`

type userRepo struct {
	q querier
}

// Create inserts a new user row and reads it back inside the same transaction.
func (r *userRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.DefaultRole
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (uuid, role, first_name, last_name, middle_name, email, phone, password_hash) VALUES (?,?,?,?,?,?,?,?)`,
		user.ID.String(), user.Role, user.FirstName, user.LastName, user.MiddleName, user.Email, user.Phone, user.PasswordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			if duplicateKey(err, phoneUniqueIndex) {
				return models.User{}, storage.ErrDuplicatePhone
			}
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	created, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	if created == nil {
		return models.User{}, storage.ErrNotFound
	}
	return *created, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
}

func (r *userRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = ? LIMIT 1`, phone)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE uuid = ?`, id.String())
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash []byte) (bool, error) {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = UTC_TIMESTAMP(6) WHERE uuid = ?`, hash, id.String())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *userRepo) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET deleted_at = UTC_TIMESTAMP(6), updated_at = UTC_TIMESTAMP(6) WHERE uuid = ? AND deleted_at IS NULL`, id.String())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *userRepo) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.q.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Role, &user.FirstName, &user.LastName,
		&user.MiddleName, &user.Email, &user.Phone, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
