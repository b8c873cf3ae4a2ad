package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/agro-market-be/internal/auth"
	"github.com/hongminglow/agro-market-be/internal/http/respond"
	"github.com/hongminglow/agro-market-be/internal/middleware"
	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/models/dto"
	"github.com/hongminglow/agro-market-be/internal/profile"
)

// ProfileHandler lets a signed-in user attach buyer or farmer details.
type ProfileHandler struct {
	svc  *profile.Service
	errs *ErrorResponder
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(svc *profile.Service, errs *ErrorResponder) *ProfileHandler {
	return &ProfileHandler{svc: svc, errs: errs}
}

// Register attaches /buyer and /farmer behind requireUser.
func (h *ProfileHandler) Register(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/buyer", h.handleCreateBuyer)
		r.Post("/farmer", h.handleCreateFarmer)
	})
}

func (h *ProfileHandler) handleCreateBuyer(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, auth.ErrUserNotFound)
		return
	}
	var req dto.BuyerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	buyer, err := h.svc.CreateBuyer(r.Context(), user.ID, req.Form())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	middleware.RecordProfileCreated(models.ProfileBuyer)
	respond.JSON(w, http.StatusCreated, "buyer created", buyer)
}

func (h *ProfileHandler) handleCreateFarmer(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, auth.ErrUserNotFound)
		return
	}
	var req dto.FarmerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	farmer, err := h.svc.CreateFarmer(r.Context(), user.ID, req.Form())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	middleware.RecordProfileCreated(models.ProfileFarmer)
	respond.JSON(w, http.StatusCreated, "farmer created", farmer)
}
