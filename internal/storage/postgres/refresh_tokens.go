package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/agro-market-be/internal/models"
)

type refreshTokenRepo struct {
	q querier
}

// Create inserts a new active refresh token row.
func (r *refreshTokenRepo) Create(ctx context.Context, userID uuid.UUID, token string) (models.RefreshToken, error) {
	const query = `
		INSERT INTO refresh_tokens (uuid, user_uuid, token, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING uuid, user_uuid, token, is_active, created_at`
	var rt models.RefreshToken
	err := r.q.QueryRow(ctx, query, uuid.New(), userID, token).
		Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.IsActive, &rt.CreatedAt)
	if err != nil {
		return models.RefreshToken{}, err
	}
	return rt, nil
}

// FindByToken returns the newest row holding exactly this token.
func (r *refreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `
		SELECT uuid, user_uuid, token, is_active, created_at
		FROM refresh_tokens
		WHERE token = $1
		ORDER BY created_at DESC
		LIMIT 1`
	var rt models.RefreshToken
	err := r.q.QueryRow(ctx, query, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.IsActive, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}
