package models

import "github.com/google/uuid"

// Buyer holds buyer-specific details attached to a user.
type Buyer struct {
	ID              uuid.UUID `json:"uuid"`
	UserID          uuid.UUID `json:"user_uuid"`
	DeliveryAddress string    `json:"delivery_address"`
}

// Farmer holds farmer-specific details attached to a user.
type Farmer struct {
	ID                 uuid.UUID `json:"uuid"`
	UserID             uuid.UUID `json:"user_uuid"`
	GovernmentIssuedID string    `json:"government_issued_id"`
	FarmAddress        string    `json:"farm_address"`
	FarmSize           *float64  `json:"farm_size"`
	AdditionalInfo     *string   `json:"additional_info"`
}
