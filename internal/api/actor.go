package api

import (
	"net/http"

	"livemart-be/internal/cart"
	"livemart-be/internal/utils"
)

// requireRole resolves the authenticated user and enforces the role the
// route is scoped to. Writes the response itself when the check fails.
func requireRole(w http.ResponseWriter, r *http.Request, role string) (uint, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, cart.ErrUserNotAuthenticated)
		return 0, false
	}

	if utils.GetUserRoleFromContext(r.Context()) != role {
		writeErrorBody(w, http.StatusForbidden, errorBody{
			Code: "FORBIDDEN", Message: "role not allowed on this resource",
		})
		return 0, false
	}

	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := utils.ToUint(r.PathValue(name))
	if err != nil || id == 0 {
		writeErrorBody(w, http.StatusBadRequest, errorBody{
			Code: "BAD_REQUEST", Message: "invalid id in path",
		})
		return 0, false
	}
	return id, true
}
