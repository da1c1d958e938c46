package handler

import (
	"net/http"
	"time"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/http/middleware"
	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/validator"
)

// RoleHandler handles role HTTP requests.
type RoleHandler struct {
	service   *app.RoleService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(svc *app.RoleService, v *validator.Validator, log *logger.Logger) *RoleHandler {
	return &RoleHandler{
		service:   svc,
		validator: v,
		logger:    log.With("handler", "role"),
	}
}

// RoleResponse represents a role in API responses.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRoleRequest is the request body for creating a role.
type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=64"`
	Description string   `json:"description" validate:"max=1000"`
	Permissions []string `json:"permissions" validate:"dive,permission_name"`
}

// SetRolePermissionsRequest is the request body for replacing a role's
// permissions.
type SetRolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,permission_name"`
}

// AssignRoleRequest is the request body for assigning a role.
type AssignRoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// Create handles POST /api/v1/roles.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	rl, err := h.service.CreateRole(r.Context(), middleware.GetUserID(r.Context()), app.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusCreated, toRoleResponse(rl))
}

// List handles GET /api/v1/roles.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	resp := make([]RoleResponse, 0, len(roles))
	for _, rl := range roles {
		resp = append(resp, toRoleResponse(rl))
	}
	respondJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/roles/{id}.
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rl, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toRoleResponse(rl))
}

// SetPermissions handles PUT /api/v1/roles/{id}/permissions.
func (h *RoleHandler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req SetRolePermissionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	rl, err := h.service.SetRolePermissions(r.Context(), middleware.GetUserID(r.Context()), id, req.Permissions)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toRoleResponse(rl))
}

// Assign handles POST /api/v1/roles/{id}/assignments.
func (h *RoleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req AssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	userID, ok := parseID(w, req.UserID, "user_id")
	if !ok {
		return
	}

	if err := h.service.AssignRole(r.Context(), middleware.GetUserID(r.Context()), userID, roleID); err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Remove handles DELETE /api/v1/roles/{id}/assignments/{userID}.
func (h *RoleHandler) Remove(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.service.RemoveRole(r.Context(), middleware.GetUserID(r.Context()), userID, roleID); err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func toRoleResponse(r *role.Role) RoleResponse {
	resp := RoleResponse{
		ID:          r.ID().String(),
		Name:        r.Name(),
		Description: r.Description(),
		Permissions: r.Permissions(),
		CreatedAt:   r.CreatedAt(),
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	return resp
}
