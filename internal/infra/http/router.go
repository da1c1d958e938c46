// Package http wires the HTTP transport: router, middleware stack, and
// handlers.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/config"
	"github.com/stocklane/api/internal/infra/http/handler"
	"github.com/stocklane/api/internal/infra/http/middleware"
	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/internal/infra/redis"
	"github.com/stocklane/api/pkg/domain/tenant"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/jwt"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/validator"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Validator  *validator.Validator
	Tokens     *jwt.Manager
	DB         *postgres.DB
	Redis      *redis.Client
	UserRepo   user.Repository
	TenantRepo tenant.Repository

	AuthService       *app.AuthService
	TenantService     *app.TenantService
	AccessService     *app.AccessService
	ProductService    *app.ProductService
	RoleService       *app.RoleService
	PermissionService *app.PermissionService
}

// NewRouter builds the chi router with the full middleware stack and
// all routes. The returned stop function releases middleware resources
// and must be called on shutdown.
func NewRouter(deps RouterDeps) (http.Handler, func()) {
	log := deps.Logger
	v := deps.Validator

	authHandler := handler.NewAuthHandler(deps.AuthService, v, log)
	tenantHandler := handler.NewTenantHandler(deps.TenantService, v, log)
	accessHandler := handler.NewAccessHandler(deps.AccessService, log)
	productHandler := handler.NewProductHandler(deps.ProductService, v, log)
	roleHandler := handler.NewRoleHandler(deps.RoleService, v, log)
	permissionHandler := handler.NewPermissionHandler(deps.PermissionService, v, log)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis, log)

	rl := middleware.NewRateLimiter(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst, log)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.CleanPath)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(rl.Middleware())
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger(log))

	r.Get("/healthz", healthHandler.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Authenticated routes. TenantScope binds the tenant before any
		// data access; PermissionSnapshot memoizes the resolved profile.
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(deps.Tokens, log))
			r.Use(middleware.TenantScope(deps.UserRepo, deps.TenantRepo, log))
			r.Use(middleware.PermissionSnapshot(deps.AccessService, log))

			r.Get("/me", authHandler.Me)
			r.Get("/me/access", accessHandler.Profile)
			r.Get("/me/tenants", tenantHandler.Accessible)
			r.Get("/me/tenant", tenantHandler.Current)
			r.Post("/me/tenant", tenantHandler.Switch)

			r.Route("/tenants", func(r chi.Router) {
				r.Post("/", tenantHandler.Create)
				r.Get("/{id}", tenantHandler.Get)
				r.Get("/{id}/members", tenantHandler.ListMembers)
				r.Post("/{id}/members", tenantHandler.AssignMember)
				r.Delete("/{id}/members/{userID}", tenantHandler.RevokeMember)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Post("/", productHandler.Create)
				r.Get("/{id}", productHandler.Get)
				r.Put("/{id}", productHandler.Update)
				r.Post("/{id}/adjust", productHandler.AdjustQuantity)
				r.Delete("/{id}", productHandler.Delete)
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", roleHandler.List)
				r.Post("/", roleHandler.Create)
				r.Get("/{id}", roleHandler.Get)
				r.Put("/{id}/permissions", roleHandler.SetPermissions)
				r.Post("/{id}/assignments", roleHandler.Assign)
				r.Delete("/{id}/assignments/{userID}", roleHandler.Remove)
			})

			r.Route("/permissions", func(r chi.Router) {
				r.Get("/", permissionHandler.List)
				r.Post("/", permissionHandler.Define)
				r.Get("/catalog", permissionHandler.Catalog)
			})
		})
	})

	return r, rl.Stop
}
