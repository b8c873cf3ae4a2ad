package dto

import "github.com/hongminglow/agro-market-be/internal/auth"

// SignupRequest is the body of POST /user/signup.
type SignupRequest struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MiddleName *string `json:"middle_name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Password   string  `json:"password"`
}

func (r SignupRequest) Form() auth.SignupForm {
	return auth.SignupForm{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		MiddleName: r.MiddleName,
		Email:      r.Email,
		Phone:      r.Phone,
		Password:   r.Password,
	}
}

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

func (r LoginRequest) Form() auth.LoginForm {
	return auth.LoginForm{Email: r.Email, Phone: r.Phone, Password: r.Password}
}

// RefreshRequest is the body of POST /user/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdatePasswordRequest is the body of PUT /user/password.
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}
