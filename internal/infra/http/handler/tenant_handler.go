package handler

import (
	"net/http"
	"time"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/http/middleware"
	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/tenant"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/validator"
)

// TenantHandler handles tenant and membership HTTP requests.
type TenantHandler struct {
	service   *app.TenantService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(svc *app.TenantService, v *validator.Validator, log *logger.Logger) *TenantHandler {
	return &TenantHandler{
		service:   svc,
		validator: v,
		logger:    log.With("handler", "tenant"),
	}
}

// TenantResponse represents a tenant in API responses.
type TenantResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// TenantAccessResponse represents a switchable tenant.
type TenantAccessResponse struct {
	Tenant   TenantResponse `json:"tenant"`
	Active   bool           `json:"active"`
	Current  bool           `json:"current"`
	JoinedAt time.Time      `json:"joined_at"`
}

// MembershipResponse represents a tenant membership.
type MembershipResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TenantID    string    `json:"tenant_id"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTenantRequest is the request body for creating a tenant.
type CreateTenantRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Code      string `json:"code" validate:"omitempty,tenant_code"`
}

// AssignMembershipRequest is the request body for granting access.
type AssignMembershipRequest struct {
	UserID      string   `json:"user_id" validate:"required,uuid"`
	Permissions []string `json:"permissions" validate:"dive,permission_name"`
}

// SwitchTenantRequest is the request body for switching tenants.
type SwitchTenantRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
}

// Create handles POST /api/v1/tenants.
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	t, err := h.service.CreateTenant(r.Context(), middleware.GetUserID(r.Context()), app.CreateTenantInput{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Code:      req.Code,
	})
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusCreated, toTenantResponse(t))
}

// Get handles GET /api/v1/tenants/{id}.
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.service.GetTenant(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toTenantResponse(t))
}

// Accessible handles GET /api/v1/me/tenants. It lists the tenants the
// authenticated user can switch to.
func (h *TenantHandler) Accessible(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	access, err := h.service.AccessibleTenants(r.Context(), userID)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	resp := make([]TenantAccessResponse, 0, len(access))
	for _, a := range access {
		resp = append(resp, TenantAccessResponse{
			Tenant:   toTenantResponse(a.Tenant),
			Active:   a.Active,
			Current:  a.Current,
			JoinedAt: a.JoinedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// Current handles GET /api/v1/me/tenant. It returns the user's current
// tenant, or 204 when none is set.
func (h *TenantHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	t, err := h.service.CurrentTenant(r.Context(), userID)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}
	if t == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}

	respondJSON(w, http.StatusOK, toTenantResponse(t))
}

// Switch handles POST /api/v1/me/tenant. A failed switch leaves the
// previous current tenant untouched.
func (h *TenantHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req SwitchTenantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	tenantID, ok := parseID(w, req.TenantID, "tenant_id")
	if !ok {
		return
	}

	if err := h.service.SwitchTenant(r.Context(), userID, tenantID); err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"current_tenant_id": req.TenantID})
}

// AssignMember handles POST /api/v1/tenants/{id}/members.
func (h *TenantHandler) AssignMember(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req AssignMembershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	m, err := h.service.AssignMembership(r.Context(), middleware.GetUserID(r.Context()), app.AssignMembershipInput{
		UserID:      req.UserID,
		TenantID:    tenantID.String(),
		Permissions: req.Permissions,
	})
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusCreated, toMembershipResponse(m))
}

// RevokeMember handles DELETE /api/v1/tenants/{id}/members/{userID}.
func (h *TenantHandler) RevokeMember(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.service.RevokeMembership(r.Context(), middleware.GetUserID(r.Context()), userID, tenantID); err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListMembers handles GET /api/v1/tenants/{id}/members.
func (h *TenantHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), tenantID)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	resp := make([]MembershipResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, toMembershipResponse(m))
	}
	respondJSON(w, http.StatusOK, resp)
}

func toTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID().String(),
		CompanyID: t.CompanyID().String(),
		Name:      t.Name(),
		Code:      t.Code(),
		CreatedAt: t.CreatedAt(),
	}
}

func toMembershipResponse(m *tenant.Membership) MembershipResponse {
	return MembershipResponse{
		ID:          m.ID().String(),
		UserID:      m.UserID().String(),
		TenantID:    m.TenantID().String(),
		Permissions: m.Permissions(),
		Active:      m.IsActive(),
		CreatedAt:   m.CreatedAt(),
	}
}
