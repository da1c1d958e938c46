package middleware

import (
	"errors"
	"net/http"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/tenantctx"
)

// TenantHeader is the request header that explicitly selects a tenant
// for the request.
const TenantHeader = "X-Tenant-ID"

// TenantScope resolves the tenant for the request and binds it to the
// context. Resolution order: explicit X-Tenant-ID header, then the
// user's current tenant. A header tenant must be backed by an active
// membership; the user's current tenant is trusted as validated at
// switch time. When neither yields a tenant the request proceeds
// unbound and scoped data access fails closed downstream.
func TenantScope(userRepo user.Repository, tenantRepo tenant.Repository, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := GetUserID(ctx)
			if userID.IsZero() {
				apierror.Unauthorized("Authentication required").WriteJSON(w)
				return
			}

			tenantID, apiErr := resolveTenant(r, userRepo, tenantRepo, userID)
			if apiErr != nil {
				apiErr.WriteJSON(w)
				return
			}

			if tenantID != nil {
				bound, err := tenantctx.Bind(ctx, tenantctx.Scope{TenantID: *tenantID})
				if err != nil {
					log.Error("tenant scope rebind attempted", "request_id", GetRequestID(ctx), "error", err)
					apierror.InternalError(err).WriteJSON(w)
					return
				}
				ctx = bound
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveTenant(r *http.Request, userRepo user.Repository, tenantRepo tenant.Repository, userID shared.ID) (*shared.ID, *apierror.Error) {
	ctx := r.Context()

	if header := r.Header.Get(TenantHeader); header != "" {
		tenantID, err := shared.IDFromString(header)
		if err != nil {
			return nil, apierror.BadRequest("Invalid tenant id")
		}

		m, err := tenantRepo.GetMembership(ctx, userID, tenantID)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, apierror.FromDomain(shared.ErrTenantMismatch)
			}
			return nil, apierror.InternalError(err)
		}
		if !m.IsActive() {
			return nil, apierror.FromDomain(shared.ErrMembershipInactive)
		}
		return &tenantID, nil
	}

	u, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, apierror.Unauthorized("Authentication required")
		}
		return nil, apierror.InternalError(err)
	}
	return u.CurrentTenantID(), nil
}

// PermissionSnapshot resolves the permission snapshot once per request
// and memoizes it on the context. Must run after TenantScope.
func PermissionSnapshot(access *app.AccessService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := GetUserID(ctx)
			if userID.IsZero() {
				apierror.Unauthorized("Authentication required").WriteJSON(w)
				return
			}

			ctx, err := access.ContextWithSnapshot(ctx, userID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					apierror.Unauthorized("Authentication required").WriteJSON(w)
					return
				}
				log.Error("snapshot resolution failed", "request_id", GetRequestID(ctx), "error", err)
				apierror.InternalError(err).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
