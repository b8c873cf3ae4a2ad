package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/http/respond"
	"github.com/hongminglow/agro-market-be/internal/middleware"
	"github.com/hongminglow/agro-market-be/internal/profile"
)

type errorKind struct {
	err    error
	status int
	typ    string
	// detail writes the full wrapped message instead of the bare kind.
	detail bool
}

// errorKinds is checked in order; the first errors.Is match wins.
var errorKinds = []errorKind{
	{auth.ErrIncorrectPasswordLength, http.StatusUnprocessableEntity, "IncorrectPasswordLength", false},
	{auth.ErrIncorrectPasswordChars, http.StatusUnprocessableEntity, "IncorrectPasswordChars", false},
	{auth.ErrPasswordIsWeak, http.StatusUnprocessableEntity, "PasswordIsWeak", false},
	{auth.ErrPhoneNotParsable, http.StatusUnprocessableEntity, "PhoneNotParsable", false},
	{auth.ErrPhoneNotValid, http.StatusUnprocessableEntity, "PhoneNotValid", false},
	{auth.ErrInvalidName, http.StatusUnprocessableEntity, "InvalidName", false},
	{auth.ErrInvalidEmail, http.StatusUnprocessableEntity, "InvalidEmail", false},
	{profile.ErrInvalidForm, http.StatusUnprocessableEntity, "InvalidForm", true},
	{auth.ErrInvalidRequest, http.StatusBadRequest, "InvalidRequest", false},
	{auth.ErrUserEmailAlreadyExists, http.StatusBadRequest, "UserEmailAlreadyExists", false},
	{auth.ErrUserPhoneAlreadyExists, http.StatusBadRequest, "UserPhoneAlreadyExists", false},
	{profile.ErrBuyerAlreadyExists, http.StatusBadRequest, "BuyerAlreadyExists", false},
	{profile.ErrFarmerAlreadyExists, http.StatusBadRequest, "FarmerAlreadyExists", false},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials", false},
	{auth.ErrTokenExpired, http.StatusUnauthorized, "TokenExpired", false},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "InvalidToken", false},
	{auth.ErrRefreshTokenExpired, http.StatusUnauthorized, "RefreshTokenExpired", false},
	{auth.ErrRefreshTokenNotFound, http.StatusUnauthorized, "RefreshTokenNotFound", false},
	{auth.ErrRefreshTokenNotActive, http.StatusUnauthorized, "RefreshTokenNotActive", false},
	{middleware.ErrMissingAuthorization, http.StatusForbidden, "AuthorizationException", false},
	{middleware.ErrInvalidAuthScheme, http.StatusForbidden, "AuthorizationException", false},
	{auth.ErrUserNotFound, http.StatusNotFound, "UserNotFound", false},
}

// ErrorResponder turns service errors into JSON error envelopes. Anything it
// does not recognise is logged and reported as a 500.
type ErrorResponder struct {
	log zerolog.Logger
}

// NewErrorResponder returns a responder that logs unexpected errors to logger.
func NewErrorResponder(logger zerolog.Logger) *ErrorResponder {
	return &ErrorResponder{log: logger}
}

// Write renders err. Its signature matches middleware.ErrorWriter.
func (e *ErrorResponder) Write(w http.ResponseWriter, r *http.Request, err error) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			msg := kind.err.Error()
			if kind.detail {
				msg = err.Error()
			}
			respond.Error(w, kind.status, kind.typ, msg)
			return
		}
	}
	e.log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("unhandled error")
	respond.Error(w, http.StatusInternalServerError, "ServerException", "internal server error")
}
