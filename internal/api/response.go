package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"livemart-be/internal/cart"
	"livemart-be/internal/checkout"
	"livemart-be/internal/fulfillment"
	"livemart-be/internal/inventory"
	"livemart-be/internal/logger"
	"livemart-be/internal/order"
	"livemart-be/internal/user"

	"go.uber.org/zap"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Item      string `json:"item,omitempty"`
	Available *int   `json:"available,omitempty"`

	// Line carries the persisted cart line on a soft stock warning.
	Line any `json:"line,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeErrorBody(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, errorResponse{Error: body})
}

// writeError maps domain errors onto the HTTP surface. Anything unmapped is
// a 500 with a generic message; internals never leak to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *inventory.InsufficientStockError

	switch {
	case errors.Is(err, cart.ErrUserNotAuthenticated),
		errors.Is(err, checkout.ErrUserNotAuthenticated),
		errors.Is(err, order.ErrUserNotAuthenticated),
		errors.Is(err, fulfillment.ErrUserNotAuthenticated):
		writeErrorBody(w, http.StatusUnauthorized, errorBody{
			Code: "UNAUTHENTICATED", Message: "authentication required",
		})

	case errors.Is(err, fulfillment.ErrNotItemOwner):
		writeErrorBody(w, http.StatusForbidden, errorBody{
			Code: "FORBIDDEN", Message: err.Error(),
		})

	case errors.Is(err, inventory.ErrInventoryNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, fulfillment.ErrItemNotFound),
		errors.Is(err, user.ErrProfileNotFound):
		writeErrorBody(w, http.StatusNotFound, errorBody{
			Code: "NOT_FOUND", Message: err.Error(),
		})

	case errors.As(err, &insufficient):
		available := insufficient.Available
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code:      "INSUFFICIENT_STOCK",
			Message:   insufficient.Error(),
			Item:      insufficient.Item,
			Available: &available,
		})

	case errors.Is(err, checkout.ErrEmptyCart):
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code: "EMPTY_CART", Message: err.Error(),
		})

	case errors.Is(err, checkout.ErrMissingAddress):
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code: "MISSING_ADDRESS", Message: err.Error(),
		})

	case errors.Is(err, cart.ErrInvalidQuantity):
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code: "INVALID_QUANTITY", Message: err.Error(),
		})

	case errors.Is(err, inventory.ErrInvalidPrice),
		errors.Is(err, inventory.ErrInvalidStock),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, fulfillment.ErrInvalidStatus):
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code: "INVALID_INPUT", Message: err.Error(),
		})

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, fulfillment.ErrInvalidTransition):
		writeErrorBody(w, http.StatusUnprocessableEntity, errorBody{
			Code: "INVALID_TRANSITION", Message: err.Error(),
		})

	case errors.Is(err, order.ErrStatusConflict),
		errors.Is(err, fulfillment.ErrStatusConflict),
		errors.Is(err, inventory.ErrInventoryInUse):
		writeErrorBody(w, http.StatusConflict, errorBody{
			Code: "CONFLICT", Message: err.Error(),
		})

	case errors.Is(err, checkout.ErrLockTimeout):
		w.Header().Set("Retry-After", "1")
		writeErrorBody(w, http.StatusServiceUnavailable, errorBody{
			Code: "LOCK_TIMEOUT", Message: err.Error(),
		})

	default:
		logger.FromCtx(r.Context()).Error("unhandled error at http boundary", zap.Error(err))
		writeErrorBody(w, http.StatusInternalServerError, errorBody{
			Code: "INTERNAL", Message: "something went wrong",
		})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code: "BAD_REQUEST", Message: "malformed request body",
		})
		return false
	}
	return true
}
