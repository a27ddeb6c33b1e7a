package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"KANBAN_CRM_BACK-END/internal/services"
	"KANBAN_CRM_BACK-END/internal/utils"
)

// writeServiceError maps service errors onto HTTP statuses. Storage failures
// get a generic message; the cause has already been logged by the service.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmailAlreadyRegistered):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Email already registered", "")
	case errors.Is(err, services.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Incorrect email or password", "")
	case errors.Is(err, services.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "")
	default:
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

// pathID parses a positive integer path parameter
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
