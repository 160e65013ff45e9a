package api

import (
	"net/http"

	"livemart-be/internal/user"
)

// ProfileHandler exposes the customer profile backing the checkout address
// fallback.
type ProfileHandler struct {
	users user.Service
}

func NewProfileHandler(users user.Service) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireRole(w, r, user.RoleCustomer)
	if !ok {
		return
	}

	p, err := h.users.EnsureCustomerProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

type updateProfileRequest struct {
	PhoneNumber *string  `json:"phone_number"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireRole(w, r, user.RoleCustomer)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.users.EnsureCustomerProfile(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.users.UpdateCustomerProfile(r.Context(), userID, user.UpdateCustomerProfileInput{
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
