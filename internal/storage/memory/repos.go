package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

type userRepo struct {
	tx *tx
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.tx.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range r.tx.st.users {
		if u.Phone != nil && *u.Phone == phone {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.tx.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) Create(_ context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.DefaultRole
	}
	for _, u := range r.tx.st.users {
		if u.ID == user.ID || u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
		if u.Phone != nil && user.Phone != nil && *u.Phone == *user.Phone {
			return models.User{}, storage.ErrDuplicatePhone
		}
	}
	user.CreatedAt = r.tx.now()
	user.UpdatedAt = nil
	user.DeletedAt = nil
	r.tx.st.users[user.ID] = user
	return user, nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash []byte) (bool, error) {
	u, ok := r.tx.st.users[id]
	if !ok {
		return false, nil
	}
	now := r.tx.now()
	u.PasswordHash = hash
	u.UpdatedAt = &now
	r.tx.st.users[id] = u
	return true, nil
}

func (r *userRepo) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	u, ok := r.tx.st.users[id]
	if !ok || u.DeletedAt != nil {
		return false, nil
	}
	now := r.tx.now()
	u.DeletedAt = &now
	u.UpdatedAt = &now
	r.tx.st.users[id] = u
	return true, nil
}

type refreshTokenRepo struct {
	tx *tx
}

func (r *refreshTokenRepo) Create(_ context.Context, userID uuid.UUID, token string) (models.RefreshToken, error) {
	if _, ok := r.tx.st.users[userID]; !ok {
		return models.RefreshToken{}, storage.ErrNotFound
	}
	rt := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		IsActive:  true,
		CreatedAt: r.tx.now(),
	}
	r.tx.st.tokens = append(r.tx.st.tokens, rt)
	return rt, nil
}

func (r *refreshTokenRepo) FindByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	for i := len(r.tx.st.tokens) - 1; i >= 0; i-- {
		if r.tx.st.tokens[i].Token == token {
			rt := r.tx.st.tokens[i]
			return &rt, nil
		}
	}
	return nil, nil
}

type buyerRepo struct {
	tx *tx
}

func (r *buyerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Buyer, error) {
	b, ok := r.tx.st.buyers[userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *buyerRepo) Create(_ context.Context, buyer models.Buyer) (models.Buyer, error) {
	if _, ok := r.tx.st.buyers[buyer.UserID]; ok {
		return models.Buyer{}, storage.ErrAlreadyExists
	}
	if buyer.ID == uuid.Nil {
		buyer.ID = uuid.New()
	}
	r.tx.st.buyers[buyer.UserID] = buyer
	return buyer, nil
}

type farmerRepo struct {
	tx *tx
}

func (r *farmerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Farmer, error) {
	f, ok := r.tx.st.farmers[userID]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *farmerRepo) Create(_ context.Context, farmer models.Farmer) (models.Farmer, error) {
	if _, ok := r.tx.st.farmers[farmer.UserID]; ok {
		return models.Farmer{}, storage.ErrAlreadyExists
	}
	if farmer.ID == uuid.Nil {
		farmer.ID = uuid.New()
	}
	r.tx.st.farmers[farmer.UserID] = farmer
	return farmer, nil
}
