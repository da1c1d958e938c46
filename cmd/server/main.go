package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/config"
	httpinfra "github.com/stocklane/api/internal/infra/http"
	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/internal/infra/redis"
	"github.com/stocklane/api/pkg/domain/accesscontrol"
	"github.com/stocklane/api/pkg/jwt"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/password"
	"github.com/stocklane/api/pkg/validator"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewDefault()
		log.Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.Info("starting application", "app", cfg.App.Name, "env", cfg.App.Env)

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()
	log.Info("database connected")

	var redisClient *redis.Client
	var snapshots *redis.SnapshotStore
	if cfg.Cache.Enabled {
		redisClient, err = redis.New(&cfg.Redis, log)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis", "error", err)
			}
		}()

		snapshots, err = redis.NewSnapshotStore(redisClient, cfg.Cache.SnapshotTTL)
		if err != nil {
			log.Error("failed to initialize snapshot store", "error", err)
			return 1
		}
	}

	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenDuration)
	if err != nil {
		log.Error("failed to initialize token manager", "error", err)
		return 1
	}
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	resolver := accesscontrol.NewResolver(accesscontrol.Config{
		SuperAdminRoles:    cfg.Access.SuperAdminRoles,
		WildcardPermission: cfg.Access.WildcardPermission,
	})

	userRepo := postgres.NewUserRepository(db)
	tenantRepo := postgres.NewTenantRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	permissionRepo := postgres.NewPermissionRepository(db)
	productRepo := postgres.NewProductRepository(db)

	accessService := app.NewAccessService(userRepo, roleRepo, tenantRepo, resolver, snapshots, log)
	authService := app.NewAuthService(userRepo, hasher, tokens, log)
	tenantService := app.NewTenantService(tenantRepo, userRepo, accessService, snapshots, log)
	roleService := app.NewRoleService(roleRepo, userRepo, accessService, snapshots, log)
	permissionService := app.NewPermissionService(permissionRepo, accessService, log)
	productService := app.NewProductService(productRepo, accessService, log)

	router, stop := httpinfra.NewRouter(httpinfra.RouterDeps{
		Config:            cfg,
		Logger:            log,
		Validator:         validator.New(),
		Tokens:            tokens,
		DB:                db,
		Redis:             redisClient,
		UserRepo:          userRepo,
		TenantRepo:        tenantRepo,
		AuthService:       authService,
		TenantService:     tenantService,
		AccessService:     accessService,
		ProductService:    productService,
		RoleService:       roleService,
		PermissionService: permissionService,
	})

	server := httpinfra.NewServer(cfg, router, stop, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
		}
	}()
	log.Info("application started", "http_addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return 1
	}

	log.Info("shutdown complete")
	return 0
}
