package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/validator"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// decodeJSON decodes the request body into dst. Returns false after
// writing an error response when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return false
	}
	return true
}

// validateStruct validates dst and writes a 422 response on failure.
func validateStruct(w http.ResponseWriter, v *validator.Validator, dst any) bool {
	if err := v.Validate(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			apierror.ValidationFailed(verrs).WriteJSON(w)
		} else {
			apierror.BadRequest(err.Error()).WriteJSON(w)
		}
		return false
	}
	return true
}

// parseID parses a request field as an ID. Returns false after writing
// an error response when the value is malformed.
func parseID(w http.ResponseWriter, raw, name string) (shared.ID, bool) {
	id, err := shared.IDFromString(raw)
	if err != nil {
		apierror.BadRequest("Invalid " + name).WriteJSON(w)
		return shared.ID{}, false
	}
	return id, true
}

// pathID parses the named chi URL parameter as an ID. Returns false
// after writing an error response when the parameter is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (shared.ID, bool) {
	id, err := shared.IDFromString(chi.URLParam(r, name))
	if err != nil {
		apierror.BadRequest("Invalid " + name).WriteJSON(w)
		return shared.ID{}, false
	}
	return id, true
}
