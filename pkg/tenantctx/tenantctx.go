// Package tenantctx carries the resolved tenant scope through a
// request. The scope is an explicit, request-scoped value bound once
// into the context.Context and threaded through every data-access
// call; there is no ambient process-wide current tenant.
package tenantctx

import (
	"context"
	"errors"
	"fmt"

	"github.com/stocklane/api/pkg/domain/shared"
)

// ErrAlreadyBound is returned when code attempts to rebind a scope
// that was already resolved for the request.
var ErrAlreadyBound = errors.New("tenant scope already bound")

type contextKey struct{}

// Scope is the tenant constraint every tenant-owned query in a request
// must honor. A zero TenantID with CrossTenant unset means no tenant
// is bound and scoped access fails closed.
type Scope struct {
	TenantID shared.ID
	// CrossTenant is the explicit caller-supplied override allowing
	// privileged cross-tenant access. It is never set implicitly.
	CrossTenant bool
}

// IsBound reports whether a tenant is bound.
func (s Scope) IsBound() bool {
	return !s.TenantID.IsZero()
}

// Bind attaches the scope to the context. Binding is write-once per
// request: a second Bind fails with ErrAlreadyBound so mid-request
// rebinding can never change authorization decisions already made.
func Bind(ctx context.Context, scope Scope) (context.Context, error) {
	if _, ok := ctx.Value(contextKey{}).(Scope); ok {
		return ctx, ErrAlreadyBound
	}
	return context.WithValue(ctx, contextKey{}, scope), nil
}

// WithCrossTenant returns a context bound to an explicit cross-tenant
// scope for privileged operations. Like Bind, it is write-once.
func WithCrossTenant(ctx context.Context) (context.Context, error) {
	return Bind(ctx, Scope{CrossTenant: true})
}

// From extracts the scope from the context. The second return is false
// when no scope was bound.
func From(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(contextKey{}).(Scope)
	return scope, ok
}

// Require extracts a scope that must confine queries to a tenant. It
// returns shared.ErrTenantRequired when no scope is bound or the bound
// scope has no tenant and no cross-tenant override.
func Require(ctx context.Context) (Scope, error) {
	scope, ok := From(ctx)
	if !ok {
		return Scope{}, fmt.Errorf("%w: no tenant scope bound to request", shared.ErrTenantRequired)
	}
	if !scope.IsBound() && !scope.CrossTenant {
		return Scope{}, fmt.Errorf("%w: no tenant resolved and cross-tenant access not requested", shared.ErrTenantRequired)
	}
	return scope, nil
}

// TenantID is a convenience accessor for the bound tenant ID. It
// returns the zero ID when no tenant is bound.
func TenantID(ctx context.Context) shared.ID {
	scope, _ := From(ctx)
	return scope.TenantID
}
