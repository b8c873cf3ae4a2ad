package auth

import "errors"

// Credential validation failures.
var (
	ErrIncorrectPasswordLength = errors.New("password must be between 8 and 16 characters")
	ErrIncorrectPasswordChars  = errors.New("password contains characters outside latin letters, digits and punctuation")
	ErrPasswordIsWeak          = errors.New("password must contain upper and lower case letters, a digit and a special character")
	ErrPhoneNotParsable        = errors.New("phone number cannot be parsed")
	ErrPhoneNotValid           = errors.New("phone number is not valid")
	ErrInvalidName             = errors.New("name must be 2 to 128 letters")
	ErrInvalidEmail            = errors.New("email address is not valid")
	ErrInvalidRequest          = errors.New("invalid request")
)

// Account and token failures.
var (
	ErrUserEmailAlreadyExists = errors.New("user with this email already exists")
	ErrUserPhoneAlreadyExists = errors.New("user with this phone already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
	ErrTokenExpired           = errors.New("token expired")
	ErrInvalidToken           = errors.New("invalid token")
	ErrRefreshTokenExpired    = errors.New("refresh token expired")
	ErrRefreshTokenNotFound   = errors.New("refresh token not found")
	ErrRefreshTokenNotActive  = errors.New("refresh token is not active")
)

// ErrInternal marks unexpected store failures. It is always wrapped together
// with the underlying cause.
var ErrInternal = errors.New("internal error")
