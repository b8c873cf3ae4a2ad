package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/agro-market-be/internal/models"
)

type refreshTokenRepo struct {
	q querier
}

// Create inserts a new active refresh token row.
func (r *refreshTokenRepo) Create(ctx context.Context, userID uuid.UUID, token string) (models.RefreshToken, error) {
	rt := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO refresh_tokens (uuid, user_uuid, token, is_active, created_at) VALUES (?,?,?,?,?)`,
		rt.ID.String(), rt.UserID.String(), rt.Token, rt.IsActive, rt.CreatedAt)
	if err != nil {
		return models.RefreshToken{}, err
	}
	return rt, nil
}

// FindByToken returns the newest row holding exactly this token.
func (r *refreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.q.QueryRowContext(ctx,
		`SELECT uuid, user_uuid, token, is_active, created_at FROM refresh_tokens WHERE token = ? ORDER BY created_at DESC LIMIT 1`,
		token).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.IsActive, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}
