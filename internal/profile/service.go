// Package profile attaches buyer and farmer details to an existing user.
package profile

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

// Errors returned by Service. ErrInvalidForm is wrapped with the failing
// fields.
var (
	ErrBuyerAlreadyExists  = errors.New("buyer information already exists for this user")
	ErrFarmerAlreadyExists = errors.New("farmer information already exists for this user")
	ErrInvalidForm         = errors.New("invalid profile form")
)

// BuyerForm is the input for CreateBuyer.
type BuyerForm struct {
	DeliveryAddress string `json:"delivery_address" validate:"required,max=512"`
}

// FarmerForm is the input for CreateFarmer.
type FarmerForm struct {
	GovernmentIssuedID string   `json:"government_issued_id" validate:"required,max=128"`
	FarmAddress        string   `json:"farm_address" validate:"required,max=512"`
	FarmSize           *float64 `json:"farm_size" validate:"omitempty,gte=0"`
	AdditionalInfo     *string  `json:"additional_info" validate:"omitempty,max=2048"`
}

// Service creates buyer and farmer profiles.
type Service struct {
	store    storage.Store
	validate *validator.Validate
	log      zerolog.Logger
}

// NewService creates the profile service. Validation failures name fields by
// their JSON keys.
func NewService(store storage.Store, logger zerolog.Logger) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		store:    store,
		validate: v,
		log:      logger.With().Str("component", "profile").Logger(),
	}
}

func invalidForm(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	parts := make([]string, 0, len(fields))
	for _, fe := range fields {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(parts, ", "))
}

// CreateBuyer stores the buyer profile for userID. A user has at most one.
func (s *Service) CreateBuyer(ctx context.Context, userID uuid.UUID, form BuyerForm) (models.Buyer, error) {
	form.DeliveryAddress = strings.TrimSpace(form.DeliveryAddress)
	if err := s.validate.Struct(form); err != nil {
		return models.Buyer{}, invalidForm(err)
	}

	var buyer models.Buyer
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		existing, err := tx.Buyers().FindByUserID(ctx, userID)
		if err != nil {
			return internal("find buyer", err)
		}
		if existing != nil {
			return ErrBuyerAlreadyExists
		}
		buyer, err = tx.Buyers().Create(ctx, models.Buyer{UserID: userID, DeliveryAddress: form.DeliveryAddress})
		if errors.Is(err, storage.ErrAlreadyExists) {
			return ErrBuyerAlreadyExists
		}
		if err != nil {
			return internal("create buyer", err)
		}
		return nil
	})
	if err != nil {
		return models.Buyer{}, err
	}
	s.log.Info().Str("user_id", userID.String()).Str("profile", models.ProfileBuyer).Msg("profile created")
	return buyer, nil
}

// CreateFarmer stores the farmer profile for userID. A user has at most one.
func (s *Service) CreateFarmer(ctx context.Context, userID uuid.UUID, form FarmerForm) (models.Farmer, error) {
	form.GovernmentIssuedID = strings.TrimSpace(form.GovernmentIssuedID)
	form.FarmAddress = strings.TrimSpace(form.FarmAddress)
	if err := s.validate.Struct(form); err != nil {
		return models.Farmer{}, invalidForm(err)
	}

	var farmer models.Farmer
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		existing, err := tx.Farmers().FindByUserID(ctx, userID)
		if err != nil {
			return internal("find farmer", err)
		}
		if existing != nil {
			return ErrFarmerAlreadyExists
		}
		farmer, err = tx.Farmers().Create(ctx, models.Farmer{
			UserID:             userID,
			GovernmentIssuedID: form.GovernmentIssuedID,
			FarmAddress:        form.FarmAddress,
			FarmSize:           form.FarmSize,
			AdditionalInfo:     form.AdditionalInfo,
		})
		if errors.Is(err, storage.ErrAlreadyExists) {
			return ErrFarmerAlreadyExists
		}
		if err != nil {
			return internal("create farmer", err)
		}
		return nil
	})
	if err != nil {
		return models.Farmer{}, err
	}
	s.log.Info().Str("user_id", userID.String()).Str("profile", models.ProfileFarmer).Msg("profile created")
	return farmer, nil
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", auth.ErrInternal, op, err)
}
