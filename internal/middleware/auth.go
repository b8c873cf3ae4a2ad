package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/models"
)

// Errors reported before a token is decoded.
var (
	ErrMissingAuthorization = errors.New("invalid authorization code")
	ErrInvalidAuthScheme    = errors.New("invalid authentication scheme")
)

type contextKey string

const (
	payloadContextKey contextKey = "token_payload"
	userContextKey    contextKey = "user"
)

// TokenDecoder verifies a raw bearer token.
type TokenDecoder interface {
	Decode(token string) (auth.TokenPayload, error)
}

// UserResolver loads the live user behind a verified payload.
type UserResolver interface {
	CurrentUser(ctx context.Context, payload auth.TokenPayload) (models.User, error)
}

// ErrorWriter renders a failed authentication.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authenticator guards routes that need a signed-in user.
type Authenticator struct {
	tokens  TokenDecoder
	users   UserResolver
	onError ErrorWriter
}

// NewAuthenticator builds the bearer-token guard. onError renders every
// rejection.
func NewAuthenticator(tokens TokenDecoder, users UserResolver, onError ErrorWriter) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, onError: onError}
}

// Handler requires "Authorization: Bearer <token>" with the scheme spelled
// exactly, verifies the token and loads the user. Both end up in the request
// context.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			a.onError(w, r, ErrMissingAuthorization)
			return
		}
		scheme, token, _ := strings.Cut(header, " ")
		if scheme != "Bearer" {
			a.onError(w, r, ErrInvalidAuthScheme)
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			a.onError(w, r, ErrMissingAuthorization)
			return
		}

		payload, err := a.tokens.Decode(token)
		if err != nil {
			a.onError(w, r, err)
			return
		}
		user, err := a.users.CurrentUser(r.Context(), payload)
		if err != nil {
			a.onError(w, r, err)
			return
		}

		ctx := WithPayload(r.Context(), payload)
		ctx = WithUser(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithPayload stores the verified token payload in ctx.
func WithPayload(ctx context.Context, payload auth.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadContextKey, payload)
}

// PayloadFromContext returns the verified token payload, if any.
func PayloadFromContext(ctx context.Context) (auth.TokenPayload, bool) {
	p, ok := ctx.Value(payloadContextKey).(auth.TokenPayload)
	return p, ok
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userContextKey).(models.User)
	return u, ok
}
