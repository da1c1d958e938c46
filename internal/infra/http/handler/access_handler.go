package handler

import (
	"net/http"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/http/middleware"
	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/accesscontrol"
	"github.com/stocklane/api/pkg/logger"
)

// AccessHandler exposes the authenticated user's resolved permission
// profile.
type AccessHandler struct {
	service *app.AccessService
	logger  *logger.Logger
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(svc *app.AccessService, log *logger.Logger) *AccessHandler {
	return &AccessHandler{
		service: svc,
		logger:  log.With("handler", "access"),
	}
}

// ModuleAccessResponse represents per-module capabilities.
type ModuleAccessResponse struct {
	Module    string   `json:"module"`
	CanView   bool     `json:"can_view"`
	CanCreate bool     `json:"can_create"`
	CanEdit   bool     `json:"can_edit"`
	CanDelete bool     `json:"can_delete"`
	CanManage bool     `json:"can_manage"`
	Level     string   `json:"level"`
	Actions   []string `json:"actions"`
}

// AccessProfileResponse represents the full permission profile.
type AccessProfileResponse struct {
	Permissions []string                        `json:"permissions"`
	SuperAdmin  bool                            `json:"super_admin"`
	Modules     map[string]ModuleAccessResponse `json:"modules"`
}

// Profile handles GET /api/v1/me/access. The response drives menu and
// button visibility in clients.
func (h *AccessHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	snap, err := h.service.Snapshot(r.Context(), userID)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toAccessProfileResponse(snap))
}

func toAccessProfileResponse(snap *accesscontrol.Snapshot) AccessProfileResponse {
	modules := make(map[string]ModuleAccessResponse)
	for name, m := range snap.Modules() {
		modules[name] = ModuleAccessResponse{
			Module:    m.Module,
			CanView:   m.CanView,
			CanCreate: m.CanCreate,
			CanEdit:   m.CanEdit,
			CanDelete: m.CanDelete,
			CanManage: m.CanManage,
			Level:     m.LevelName(),
			Actions:   m.Actions,
		}
	}
	return AccessProfileResponse{
		Permissions: snap.Names(),
		SuperAdmin:  snap.IsSuperAdmin(),
		Modules:     modules,
	}
}
