package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"KANBAN_CRM_BACK-END/internal/dto"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a dto.ErrorResponse with the given status
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// DecodeJSONRequest decodes the request body into dst. On failure it writes a
// 400 response and returns the error; the caller only needs to return.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large", "")
			return err
		}
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "Body must be a single JSON object")
		return err
	}
	if dec.More() {
		err := errors.New("trailing data after JSON object")
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "Body must be a single JSON object")
		return err
	}
	return nil
}
