package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

type buyerRepo struct {
	q querier
}

func (r *buyerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Buyer, error) {
	var b models.Buyer
	err := r.q.QueryRowContext(ctx, `SELECT uuid, user_uuid, delivery_address FROM buyers WHERE user_uuid = ?`, userID.String()).
		Scan(&b.ID, &b.UserID, &b.DeliveryAddress)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *buyerRepo) Create(ctx context.Context, buyer models.Buyer) (models.Buyer, error) {
	if buyer.ID == uuid.Nil {
		buyer.ID = uuid.New()
	}
	_, err := r.q.ExecContext(ctx, `INSERT INTO buyers (uuid, user_uuid, delivery_address) VALUES (?,?,?)`,
		buyer.ID.String(), buyer.UserID.String(), buyer.DeliveryAddress)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.Buyer{}, storage.ErrAlreadyExists
		}
		return models.Buyer{}, err
	}
	return buyer, nil
}

type farmerRepo struct {
	q querier
}

func (r *farmerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Farmer, error) {
	var f models.Farmer
	err := r.q.QueryRowContext(ctx,
		`SELECT uuid, user_uuid, government_issued_id, farm_address, farm_size, additional_info FROM farmers WHERE user_uuid = ?`,
		userID.String()).Scan(&f.ID, &f.UserID, &f.GovernmentIssuedID, &f.FarmAddress, &f.FarmSize, &f.AdditionalInfo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *farmerRepo) Create(ctx context.Context, farmer models.Farmer) (models.Farmer, error) {
	if farmer.ID == uuid.Nil {
		farmer.ID = uuid.New()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO farmers (uuid, user_uuid, government_issued_id, farm_address, farm_size, additional_info) VALUES (?,?,?,?,?,?)`,
		farmer.ID.String(), farmer.UserID.String(), farmer.GovernmentIssuedID, farmer.FarmAddress, farmer.FarmSize, farmer.AdditionalInfo)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.Farmer{}, storage.ErrAlreadyExists
		}
		return models.Farmer{}, err
	}
	return farmer, nil
}
