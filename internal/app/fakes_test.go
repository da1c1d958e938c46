package app

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/stocklane/api/pkg/domain/permission"
	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
	"github.com/stocklane/api/pkg/domain/user"
	"github.com/stocklane/api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard})
}

// memUserRepo is an in-memory user.Repository.
type memUserRepo struct {
	users map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*user.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.ID().String()] = u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id shared.ID) (*user.User, error) {
	u, ok := r.users[id.String()]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, email)
}

func (r *memUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID().String()]; !ok {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, u.ID())
	}
	r.users[u.ID().String()] = u
	return nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) AssignRole(ctx context.Context, userID, roleID shared.ID) error {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.AssignRole(roleID)
	return nil
}

func (r *memUserRepo) RemoveRole(ctx context.Context, userID, roleID shared.ID) error {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.RemoveRole(roleID)
	return nil
}

func (r *memUserRepo) ListRoleIDs(ctx context.Context, userID shared.ID) ([]shared.ID, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.RoleIDs(), nil
}

// memRoleRepo is an in-memory role.Repository.
type memRoleRepo struct {
	roles map[string]*role.Role
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: make(map[string]*role.Role)}
}

func (r *memRoleRepo) Create(_ context.Context, rl *role.Role) error {
	r.roles[rl.ID().String()] = rl
	return nil
}

func (r *memRoleRepo) GetByID(_ context.Context, id shared.ID) (*role.Role, error) {
	rl, ok := r.roles[id.String()]
	if !ok {
		return nil, fmt.Errorf("%w: role %s", shared.ErrNotFound, id)
	}
	return rl, nil
}

func (r *memRoleRepo) GetByName(_ context.Context, name string) (*role.Role, error) {
	for _, rl := range r.roles {
		if rl.Name() == name {
			return rl, nil
		}
	}
	return nil, fmt.Errorf("%w: role %s", shared.ErrNotFound, name)
}

func (r *memRoleRepo) Update(_ context.Context, rl *role.Role) error {
	r.roles[rl.ID().String()] = rl
	return nil
}

func (r *memRoleRepo) List(_ context.Context) ([]*role.Role, error) {
	out := make([]*role.Role, 0, len(r.roles))
	for _, rl := range r.roles {
		out = append(out, rl)
	}
	return out, nil
}

func (r *memRoleRepo) GetByIDs(_ context.Context, ids []shared.ID) ([]*role.Role, error) {
	out := make([]*role.Role, 0, len(ids))
	for _, id := range ids {
		if rl, ok := r.roles[id.String()]; ok {
			out = append(out, rl)
		}
	}
	return out, nil
}

// memTenantRepo is an in-memory tenant.Repository. SwitchCurrentTenant
// needs the user store to mirror the transactional repo behavior.
type memTenantRepo struct {
	tenants     map[string]*tenant.Tenant
	memberships map[string]*tenant.Membership
	users       *memUserRepo
}

func newMemTenantRepo(users *memUserRepo) *memTenantRepo {
	return &memTenantRepo{
		tenants:     make(map[string]*tenant.Tenant),
		memberships: make(map[string]*tenant.Membership),
		users:       users,
	}
}

func membershipKey(userID, tenantID shared.ID) string {
	return userID.String() + "/" + tenantID.String()
}

func (r *memTenantRepo) Create(_ context.Context, t *tenant.Tenant) error {
	r.tenants[t.ID().String()] = t
	return nil
}

func (r *memTenantRepo) GetByID(_ context.Context, id shared.ID) (*tenant.Tenant, error) {
	t, ok := r.tenants[id.String()]
	if !ok {
		return nil, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, id)
	}
	return t, nil
}

func (r *memTenantRepo) GetByCode(_ context.Context, code string) (*tenant.Tenant, error) {
	for _, t := range r.tenants {
		if t.Code() == code {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, code)
}

func (r *memTenantRepo) Update(_ context.Context, t *tenant.Tenant) error {
	r.tenants[t.ID().String()] = t
	return nil
}

func (r *memTenantRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, t := range r.tenants {
		if t.Code() == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTenantRepo) ListByCompany(_ context.Context, companyID shared.ID) ([]*tenant.Tenant, error) {
	var out []*tenant.Tenant
	for _, t := range r.tenants {
		if t.BelongsToCompany(companyID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTenantRepo) UpsertMembership(_ context.Context, m *tenant.Membership) error {
	key := membershipKey(m.UserID(), m.TenantID())
	if existing, ok := r.memberships[key]; ok {
		existing.SetPermissions(m.Permissions())
		existing.Reactivate()
		return nil
	}
	r.memberships[key] = m
	return nil
}

func (r *memTenantRepo) GetMembership(_ context.Context, userID, tenantID shared.ID) (*tenant.Membership, error) {
	m, ok := r.memberships[membershipKey(userID, tenantID)]
	if !ok {
		return nil, fmt.Errorf("%w: membership", shared.ErrNotFound)
	}
	return m, nil
}

func (r *memTenantRepo) UpdateMembership(_ context.Context, m *tenant.Membership) error {
	key := membershipKey(m.UserID(), m.TenantID())
	if _, ok := r.memberships[key]; !ok {
		return fmt.Errorf("%w: membership", shared.ErrNotFound)
	}
	r.memberships[key] = m
	return nil
}

func (r *memTenantRepo) ListMembershipsByUser(_ context.Context, userID shared.ID) ([]*tenant.Membership, error) {
	var out []*tenant.Membership
	for _, m := range r.memberships {
		if m.UserID().Equals(userID) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b *tenant.Membership) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return out, nil
}

func (r *memTenantRepo) ListMembersByTenant(_ context.Context, tenantID shared.ID) ([]*tenant.Membership, error) {
	var out []*tenant.Membership
	for _, m := range r.memberships {
		if m.TenantID().Equals(tenantID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memTenantRepo) ListAccessibleTenants(ctx context.Context, userID shared.ID) ([]*tenant.TenantAccess, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	memberships, _ := r.ListMembershipsByUser(ctx, userID)

	var out []*tenant.TenantAccess
	for _, m := range memberships {
		if !m.IsActive() {
			continue
		}
		t, ok := r.tenants[m.TenantID().String()]
		if !ok {
			continue
		}
		current := u.CurrentTenantID() != nil && u.CurrentTenantID().Equals(t.ID())
		out = append(out, &tenant.TenantAccess{
			Tenant:   t,
			Active:   m.IsActive(),
			Current:  current,
			JoinedAt: m.CreatedAt(),
		})
	}
	return out, nil
}

func (r *memTenantRepo) SwitchCurrentTenant(ctx context.Context, userID, tenantID shared.ID) error {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	t, err := r.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !t.BelongsToCompany(u.CompanyID()) {
		return fmt.Errorf("%w: tenant %s", shared.ErrTenantMismatch, tenantID)
	}
	m, ok := r.memberships[membershipKey(userID, tenantID)]
	if !ok {
		return fmt.Errorf("%w: tenant %s", shared.ErrTenantMismatch, tenantID)
	}
	if !m.IsActive() {
		return fmt.Errorf("%w: tenant %s", shared.ErrMembershipInactive, tenantID)
	}
	id := tenantID
	u.SetCurrentTenant(&id)
	return nil
}

// memPermissionRepo is an in-memory permission.Repository keyed by
// wire name.
type memPermissionRepo struct {
	records map[string]*permission.Record
}

func newMemPermissionRepo() *memPermissionRepo {
	return &memPermissionRepo{records: make(map[string]*permission.Record)}
}

func (r *memPermissionRepo) Create(_ context.Context, rec *permission.Record) error {
	if _, ok := r.records[rec.Name()]; ok {
		return fmt.Errorf("%w: permission %q", shared.ErrAlreadyExists, rec.Name())
	}
	r.records[rec.Name()] = rec
	return nil
}

func (r *memPermissionRepo) GetByID(_ context.Context, id shared.ID) (*permission.Record, error) {
	for _, rec := range r.records {
		if rec.ID().Equals(id) {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: permission %s", shared.ErrNotFound, id)
}

func (r *memPermissionRepo) GetByName(_ context.Context, name string) (*permission.Record, error) {
	rec, ok := r.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: permission %s", shared.ErrNotFound, name)
	}
	return rec, nil
}

func (r *memPermissionRepo) List(_ context.Context) ([]*permission.Record, error) {
	out := make([]*permission.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b *permission.Record) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out, nil
}

func (r *memPermissionRepo) ListByModule(ctx context.Context) (map[string][]*permission.Record, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]*permission.Record)
	for _, rec := range records {
		grouped[rec.Module()] = append(grouped[rec.Module()], rec)
	}
	return grouped, nil
}
