package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserTokenType is the only token type this service issues or accepts.
const UserTokenType = "user"

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = 120 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenPayload is the logical content of an access or refresh token.
type TokenPayload struct {
	UserID    uuid.UUID
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenType string
}

// TokenPair is returned by signup, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type claims struct {
	Type string `json:"type"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies JWTs with a shared HMAC secret.
type TokenManager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a manager for the given secret and HMAC algorithm
// name (HS256, HS384 or HS512). Zero lifetimes fall back to the defaults.
func NewTokenManager(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &TokenManager{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Encode signs payload. IssuedAt and ExpiresAt are overwritten from the clock
// and lifetime.
func (t *TokenManager) Encode(payload TokenPayload, lifetime time.Duration) (string, error) {
	now := t.now()
	tokenType := payload.TokenType
	if tokenType == "" {
		tokenType = UserTokenType
	}
	c := claims{
		Type: tokenType,
		Role: payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	return jwt.NewWithClaims(t.method, c).SignedString(t.secret)
}

// Decode verifies token and returns its payload. Expiry is reported as
// ErrTokenExpired; every other failure is ErrInvalidToken.
func (t *TokenManager) Decode(token string) (TokenPayload, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPayload{}, ErrTokenExpired
		}
		return TokenPayload{}, ErrInvalidToken
	}
	if c.Type != UserTokenType || c.Role == "" || c.IssuedAt == nil {
		return TokenPayload{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return TokenPayload{}, ErrInvalidToken
	}
	return TokenPayload{
		UserID:    userID,
		Role:      c.Role,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
		TokenType: c.Type,
	}, nil
}

// GeneratePair issues an access and a refresh token for the same user. The
// two differ only in lifetime.
func (t *TokenManager) GeneratePair(userID uuid.UUID, role string) (TokenPair, error) {
	payload := TokenPayload{UserID: userID, Role: role, TokenType: UserTokenType}
	access, err := t.Encode(payload, t.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := t.Encode(payload, t.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
