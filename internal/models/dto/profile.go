package dto

import "github.com/hongminglow/agro-market-be/internal/profile"

// BuyerRequest is the body of POST /buyer.
type BuyerRequest struct {
	DeliveryAddress string `json:"delivery_address"`
}

func (r BuyerRequest) Form() profile.BuyerForm {
	return profile.BuyerForm{DeliveryAddress: r.DeliveryAddress}
}

// FarmerRequest is the body of POST /farmer.
type FarmerRequest struct {
	GovernmentIssuedID string   `json:"government_issued_id"`
	FarmAddress        string   `json:"farm_address"`
	FarmSize           *float64 `json:"farm_size"`
	AdditionalInfo     *string  `json:"additional_info"`
}

func (r FarmerRequest) Form() profile.FarmerForm {
	return profile.FarmerForm{
		GovernmentIssuedID: r.GovernmentIssuedID,
		FarmAddress:        r.FarmAddress,
		FarmSize:           r.FarmSize,
		AdditionalInfo:     r.AdditionalInfo,
	}
}
