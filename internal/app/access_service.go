package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/stocklane/api/internal/infra/redis"
	"github.com/stocklane/api/internal/metrics"
	"github.com/stocklane/api/pkg/domain/accesscontrol"
	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/tenantctx"
)

type snapshotContextKey struct{}

// AccessService resolves and authorizes permission snapshots. A
// snapshot merges a user's role grants with their active membership
// overrides for the tenant bound to the request context.
type AccessService struct {
	userRepo   user.Repository
	roleRepo   role.Repository
	tenantRepo tenant.Repository
	resolver   *accesscontrol.Resolver
	snapshots  *redis.SnapshotStore
	logger     *logger.Logger
}

// NewAccessService creates a new AccessService. The snapshot store is
// optional; without it every resolution hits the database.
func NewAccessService(
	userRepo user.Repository,
	roleRepo role.Repository,
	tenantRepo tenant.Repository,
	resolver *accesscontrol.Resolver,
	snapshots *redis.SnapshotStore,
	log *logger.Logger,
) *AccessService {
	return &AccessService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		tenantRepo: tenantRepo,
		resolver:   resolver,
		snapshots:  snapshots,
		logger:     log.With("service", "access"),
	}
}

// Snapshot resolves the permission snapshot for the given user in the
// tenant bound to ctx. Resolution order: request memo, cache, database.
func (s *AccessService) Snapshot(ctx context.Context, userID shared.ID) (*accesscontrol.Snapshot, error) {
	if snap, ok := ctx.Value(snapshotContextKey{}).(*accesscontrol.Snapshot); ok {
		return snap, nil
	}

	tenantID := s.boundTenant(ctx)

	if s.snapshots != nil {
		payload, err := s.snapshots.Get(ctx, userID, tenantID)
		if err == nil {
			return accesscontrol.NewSnapshot(payload.Permissions, payload.SuperAdmin), nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("snapshot cache read failed", "error", err)
		}
	}

	snap, err := s.resolve(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		payload := redis.SnapshotPayload{
			Permissions: snap.Names(),
			SuperAdmin:  snap.IsSuperAdmin(),
		}
		if err := s.snapshots.Set(ctx, userID, tenantID, payload); err != nil {
			s.logger.Warn("snapshot cache write failed", "error", err)
		}
	}
	return snap, nil
}

// ContextWithSnapshot resolves the snapshot once and memoizes it on the
// returned context so later Authorize calls in the same request skip
// resolution.
func (s *AccessService) ContextWithSnapshot(ctx context.Context, userID shared.ID) (context.Context, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, snapshotContextKey{}, snap), nil
}

// Authorize checks that the user holds the named permission. Super
// admins pass every check. A denied check returns an error unwrapping
// to shared.ErrForbidden that names the missing permission.
func (s *AccessService) Authorize(ctx context.Context, userID shared.ID, permission string) error {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		metrics.AuthorizationDecisions.WithLabelValues("error").Inc()
		return err
	}

	if err := snap.Authorize(permission); err != nil {
		metrics.AuthorizationDecisions.WithLabelValues("deny").Inc()
		return err
	}
	metrics.AuthorizationDecisions.WithLabelValues("allow").Inc()
	return nil
}

// authorize checks an acting principal's permission through the access
// service. A nil access service marks an operator invocation (the
// admin CLI runs against the database directly, outside the HTTP
// authorization chain); HTTP wiring always provides one.
func authorize(ctx context.Context, access *AccessService, actorID shared.ID, permission string) error {
	if access == nil {
		return nil
	}
	return access.Authorize(ctx, actorID, permission)
}

// resolve loads roles and the tenant membership and merges them.
func (s *AccessService) resolve(ctx context.Context, userID shared.ID, tenantID *shared.ID) (*accesscontrol.Snapshot, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	roles, err := s.roleRepo.GetByIDs(ctx, u.RoleIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	var membership *tenant.Membership
	if tenantID != nil {
		membership, err = s.tenantRepo.GetMembership(ctx, userID, *tenantID)
		if err != nil && !shared.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load membership: %w", err)
		}
	}

	return s.resolver.Build(roles, membership), nil
}

// boundTenant returns the tenant from the request scope, or nil when
// the request is unbound or cross-tenant.
func (s *AccessService) boundTenant(ctx context.Context) *shared.ID {
	scope, ok := tenantctx.From(ctx)
	if !ok || scope.CrossTenant {
		return nil
	}
	id := scope.TenantID
	return &id
}
