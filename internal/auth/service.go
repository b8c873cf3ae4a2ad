package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

// Service implements signup, login, token refresh and account maintenance.
// Each call runs in its own store transaction.
type Service struct {
	store  storage.Store
	hasher *Hasher
	tokens *TokenManager
	log    zerolog.Logger
}

// NewService wires the service to its collaborators.
func NewService(store storage.Store, hasher *Hasher, tokens *TokenManager, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		log:    logger.With().Str("component", "auth").Logger(),
	}
}

// Signup creates a user and returns a fresh token pair.
func (s *Service) Signup(ctx context.Context, form SignupForm) (TokenPair, error) {
	if err := form.Normalize(); err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		users := tx.Users()
		existing, err := users.FindByEmail(ctx, form.Email)
		if err != nil {
			return internal("find user by email", err)
		}
		if existing != nil {
			return ErrUserEmailAlreadyExists
		}
		if form.Phone != nil {
			existing, err = users.FindByPhone(ctx, *form.Phone)
			if err != nil {
				return internal("find user by phone", err)
			}
			if existing != nil {
				return ErrUserPhoneAlreadyExists
			}
		}

		password, err := ValidatePassword(form.Password)
		if err != nil {
			return err
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return internal("hash password", err)
		}

		user, err := users.Create(ctx, models.User{
			Role:         models.DefaultRole,
			FirstName:    form.FirstName,
			LastName:     form.LastName,
			MiddleName:   form.MiddleName,
			Email:        form.Email,
			Phone:        form.Phone,
			PasswordHash: hash,
		})
		if err != nil {
			// Lost a race with a concurrent signup for the same contact.
			if errors.Is(err, storage.ErrDuplicatePhone) {
				return ErrUserPhoneAlreadyExists
			}
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrUserEmailAlreadyExists
			}
			return internal("create user", err)
		}

		pair, err = s.issuePair(ctx, tx, user.ID, user.Role)
		if err != nil {
			return err
		}
		s.log.Info().Str("user_id", user.ID.String()).Msg("user signed up")
		return nil
	})
	return pair, err
}

// Login checks the password and returns a fresh token pair.
//
// The lookup key is always the email field: when no user has that email the
// same value is tried as a phone number.
func (s *Service) Login(ctx context.Context, form LoginForm) (TokenPair, error) {
	if err := form.Normalize(); err != nil {
		return TokenPair{}, err
	}
	var key string
	if form.Email != nil {
		key = *form.Email
	}

	var pair TokenPair
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		users := tx.Users()
		user, err := users.FindByEmail(ctx, key)
		if err != nil {
			return internal("find user by email", err)
		}
		if user == nil {
			user, err = users.FindByPhone(ctx, key)
			if err != nil {
				return internal("find user by phone", err)
			}
		}
		if user == nil || user.Deleted() || !s.hasher.Verify(form.Password, user.PasswordHash) {
			return ErrInvalidCredentials
		}

		pair, err = s.issuePair(ctx, tx, user.ID, user.Role)
		return err
	})
	return pair, err
}

// Refresh exchanges a recorded, active refresh token for a new pair. The
// presented token is left as it is.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	payload, err := s.tokens.Decode(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return TokenPair{}, ErrRefreshTokenExpired
		}
		return TokenPair{}, err
	}

	var pair TokenPair
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		record, err := tx.RefreshTokens().FindByToken(ctx, refreshToken)
		if err != nil {
			return internal("find refresh token", err)
		}
		if record == nil {
			return ErrRefreshTokenNotFound
		}
		if !record.IsActive {
			return ErrRefreshTokenNotActive
		}

		pair, err = s.issuePair(ctx, tx, payload.UserID, payload.Role)
		return err
	})
	return pair, err
}

// CurrentUser resolves a verified token payload to a live user.
func (s *Service) CurrentUser(ctx context.Context, payload TokenPayload) (models.User, error) {
	var user models.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		found, err := tx.Users().GetByID(ctx, payload.UserID)
		if err != nil {
			return internal("get user", err)
		}
		if found == nil || found.Deleted() {
			return ErrUserNotFound
		}
		user = *found
		return nil
	})
	return user, err
}

// UpdatePassword hashes and stores newPassword. Callers are expected to have
// validated it and authenticated the user.
func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internal("hash password", err)
	}
	return s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		ok, err := tx.Users().UpdatePassword(ctx, userID, hash)
		if err != nil {
			return internal("update password", err)
		}
		if !ok {
			return ErrUserNotFound
		}
		s.log.Info().Str("user_id", userID.String()).Msg("password updated")
		return nil
	})
}

// DeleteUser soft-deletes the user. Issued tokens stay valid until they expire
// but no longer resolve to a user.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		ok, err := tx.Users().SoftDelete(ctx, userID)
		if err != nil {
			return internal("delete user", err)
		}
		if !ok {
			return ErrUserNotFound
		}
		s.log.Info().Str("user_id", userID.String()).Msg("user deleted")
		return nil
	})
}

func (s *Service) issuePair(ctx context.Context, tx storage.Tx, userID uuid.UUID, role string) (TokenPair, error) {
	pair, err := s.tokens.GeneratePair(userID, role)
	if err != nil {
		return TokenPair{}, internal("generate token pair", err)
	}
	if _, err := tx.RefreshTokens().Create(ctx, userID, pair.RefreshToken); err != nil {
		return TokenPair{}, internal("record refresh token", err)
	}
	return pair, nil
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
