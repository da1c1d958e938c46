package handler

import (
	"net/http"
	"time"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/http/middleware"
	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/validator"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	service   *app.AuthService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *app.AuthService, v *validator.Validator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:   svc,
		validator: v,
		logger:    log.With("handler", "auth"),
	}
}

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Name      string `json:"name" validate:"required,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	CurrentTenantID *string   `json:"current_tenant_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	u, err := h.service.Register(r.Context(), app.RegisterInput{
		CompanyID: req.CompanyID,
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
	})
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

// Me handles GET /api/v1/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID.IsZero() {
		apierror.Unauthorized("Authentication required").WriteJSON(w)
		return
	}

	u, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(u))
}

func toUserResponse(u *user.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID().String(),
		CompanyID: u.CompanyID().String(),
		Email:     u.Email(),
		Name:      u.Name(),
		CreatedAt: u.CreatedAt(),
	}
	if current := u.CurrentTenantID(); current != nil {
		s := current.String()
		resp.CurrentTenantID = &s
	}
	return resp
}
