package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/http/respond"
	"github.com/hongminglow/agro-market-be/internal/middleware"
	"github.com/hongminglow/agro-market-be/internal/models/dto"
)

// AuthHandler owns the /user endpoints.
type AuthHandler struct {
	svc  *auth.Service
	errs *ErrorResponder
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *auth.Service, errs *ErrorResponder) *AuthHandler {
	return &AuthHandler{svc: svc, errs: errs}
}

// Register attaches the user routes. requireUser guards the routes that act
// on the signed-in account.
func (h *AuthHandler) Register(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", h.handleSignup)
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/me", h.handleMe)
			r.Put("/password", h.handleUpdatePassword)
			r.Delete("/me", h.handleDelete)
		})
	})
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := h.svc.Signup(r.Context(), req.Form())
	middleware.RecordAuthAttempt("signup", err == nil)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "user created", pair)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := h.svc.Login(r.Context(), req.Form())
	middleware.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", pair)
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	middleware.RecordAuthAttempt("refresh", err == nil)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "token refreshed", pair)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, auth.ErrUserNotFound)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", user)
}

func (h *AuthHandler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, auth.ErrUserNotFound)
		return
	}
	var req dto.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	password, err := auth.ValidatePassword(req.Password)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if err := h.svc.UpdatePassword(r.Context(), user.ID, password); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "password updated", nil)
}

func (h *AuthHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, auth.ErrUserNotFound)
		return
	}
	if err := h.svc.DeleteUser(r.Context(), user.ID); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "user deleted", nil)
}
