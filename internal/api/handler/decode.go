package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
)

// decodeJSON decodes the request body into dst, writing a problem response
// and returning false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(w, r, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return false
		}
		response.BadRequest(w, r, "invalid JSON body", nil)
		return false
	}
	return true
}

// rejectInvalid writes a 400 problem listing errs and reports whether it did.
func rejectInvalid(w http.ResponseWriter, r *http.Request, errs []models.FieldError) bool {
	if len(errs) == 0 {
		return false
	}
	response.BadRequest(w, r, "request failed validation", errs)
	return true
}
