package postgres

import (
	"context"
	"fmt"

	"github.com/stocklane/api/pkg/tenantctx"
)

// Tenant scope enforcement. Every repository method touching a
// tenant-owned table builds its WHERE clause through tenantCondition so
// the tenant constraint cannot be forgotten on a new query. With no
// scope bound to the context the helper fails closed with
// shared.ErrTenantRequired; only an explicit cross-tenant scope skips
// the constraint. Rows owned by other tenants are filtered out before
// they reach the caller, so a direct-by-id fetch across tenants is
// indistinguishable from a missing row.

// tenantCondition resolves the request's tenant scope and returns a SQL
// fragment to append to a query's WHERE clause, plus its bind argument.
// argPos is the 1-based position of the next query placeholder. The
// fragment is empty for explicit cross-tenant scopes.
func tenantCondition(ctx context.Context, argPos int) (string, []any, error) {
	scope, err := tenantctx.Require(ctx)
	if err != nil {
		return "", nil, err
	}
	if scope.CrossTenant {
		return "", nil, nil
	}
	return fmt.Sprintf(" AND tenant_id = $%d", argPos), []any{scope.TenantID}, nil
}
