package handler

import (
	"net/http"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/http/middleware"
	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/permission"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/validator"
)

// PermissionHandler handles permission catalog HTTP requests.
type PermissionHandler struct {
	service   *app.PermissionService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(svc *app.PermissionService, v *validator.Validator, log *logger.Logger) *PermissionHandler {
	return &PermissionHandler{
		service:   svc,
		validator: v,
		logger:    log.With("handler", "permission"),
	}
}

// PermissionResponse represents a permission in API responses.
type PermissionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Module      string `json:"module"`
	Guard       string `json:"guard"`
	Description string `json:"description,omitempty"`
}

// DefinePermissionRequest is the request body for defining a
// permission.
type DefinePermissionRequest struct {
	Name        string `json:"name" validate:"required,permission_name"`
	Guard       string `json:"guard" validate:"omitempty,max=32"`
	Description string `json:"description" validate:"max=1000"`
}

// Define handles POST /api/v1/permissions.
func (h *PermissionHandler) Define(w http.ResponseWriter, r *http.Request) {
	var req DefinePermissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	rec, err := h.service.DefinePermission(r.Context(), middleware.GetUserID(r.Context()), app.DefinePermissionInput{
		Name:        req.Name,
		Guard:       req.Guard,
		Description: req.Description,
	})
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusCreated, toPermissionResponse(rec))
}

// List handles GET /api/v1/permissions.
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListPermissions(r.Context())
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	resp := make([]PermissionResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toPermissionResponse(rec))
	}
	respondJSON(w, http.StatusOK, resp)
}

// Catalog handles GET /api/v1/permissions/catalog. Entries are grouped
// by module discovered from stored records.
func (h *PermissionHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.Catalog(r.Context())
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	resp := make(map[string][]PermissionResponse, len(grouped))
	for module, records := range grouped {
		entries := make([]PermissionResponse, 0, len(records))
		for _, rec := range records {
			entries = append(entries, toPermissionResponse(rec))
		}
		resp[module] = entries
	}
	respondJSON(w, http.StatusOK, resp)
}

func toPermissionResponse(rec *permission.Record) PermissionResponse {
	return PermissionResponse{
		ID:          rec.ID().String(),
		Name:        rec.Name(),
		Module:      rec.Module(),
		Guard:       rec.Guard(),
		Description: rec.Description(),
	}
}
