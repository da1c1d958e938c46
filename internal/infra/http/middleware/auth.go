package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/jwt"
	"github.com/stocklane/api/pkg/logger"
)

// Auth-related context keys.
const (
	UserIDKey                      = logger.ContextKeyUserID
	CompanyIDKey logger.ContextKey = "company_id"
	EmailKey     logger.ContextKey = "email"
)

// JWTAuth validates the Bearer token and puts the principal's identity
// on the context. Tokens carry identity only; tenant scope and
// permissions are resolved afterwards.
func JWTAuth(tokens *jwt.Manager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apierror.Unauthorized("Authentication required").WriteJSON(w)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				apierror.Unauthorized("Invalid authorization header").WriteJSON(w)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				log.Debug("token validation failed", "error", err)
				apierror.Unauthorized("Invalid or expired token").WriteJSON(w)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, CompanyIDKey, claims.CompanyID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from context. Returns a
// zero ID when unauthenticated.
func GetUserID(ctx context.Context) shared.ID {
	raw, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return shared.ID{}
	}
	id, err := shared.IDFromString(raw)
	if err != nil {
		return shared.ID{}
	}
	return id
}

// GetCompanyID extracts the authenticated user's company ID from
// context.
func GetCompanyID(ctx context.Context) shared.ID {
	raw, ok := ctx.Value(CompanyIDKey).(string)
	if !ok {
		return shared.ID{}
	}
	id, err := shared.IDFromString(raw)
	if err != nil {
		return shared.ID{}
	}
	return id
}

// GetEmail extracts the authenticated user's email from context.
func GetEmail(ctx context.Context) string {
	if email, ok := ctx.Value(EmailKey).(string); ok {
		return email
	}
	return ""
}
