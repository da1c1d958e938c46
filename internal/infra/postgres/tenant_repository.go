package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/tenant"
)

// TenantRepository implements tenant.Repository using PostgreSQL.
type TenantRepository struct {
	db *DB
}

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create persists a new tenant.
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (id, company_id, name, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID(), t.CompanyID(), t.Name(), t.Code(), t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tenant code %q", shared.ErrAlreadyExists, t.Code())
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID.
func (r *TenantRepository) GetByID(ctx context.Context, id shared.ID) (*tenant.Tenant, error) {
	query := `
		SELECT id, company_id, name, code, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, id))
}

// GetByCode retrieves a tenant by code.
func (r *TenantRepository) GetByCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	query := `
		SELECT id, company_id, name, code, created_at, updated_at
		FROM tenants
		WHERE code = $1
	`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, code))
}

// Update updates a tenant.
func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, code = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, t.ID(), t.Name(), t.Code(), t.UpdatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tenant code %q", shared.ErrAlreadyExists, t.Code())
		}
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: tenant", shared.ErrNotFound)
	}
	return nil
}

// ExistsByCode checks whether a tenant code is taken.
func (r *TenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tenants WHERE code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant code: %w", err)
	}
	return exists, nil
}

// ListByCompany returns all tenants belonging to a company.
func (r *TenantRepository) ListByCompany(ctx context.Context, companyID shared.ID) ([]*tenant.Tenant, error) {
	query := `
		SELECT id, company_id, name, code, created_at, updated_at
		FROM tenants
		WHERE company_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := r.scanTenantRow(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// UpsertMembership creates a membership or updates the existing
// (user, tenant) row in place, keeping the pair unique and
// re-assignment idempotent.
func (r *TenantRepository) UpsertMembership(ctx context.Context, m *tenant.Membership) error {
	query := `
		INSERT INTO tenant_members (id, user_id, tenant_id, permissions, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, tenant_id)
		DO UPDATE SET permissions = EXCLUDED.permissions,
		              active = EXCLUDED.active,
		              updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID(), m.UserID(), m.TenantID(), pq.Array(m.Permissions()),
		m.IsActive(), m.CreatedAt(), m.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

// GetMembership retrieves the membership for a (user, tenant) pair.
func (r *TenantRepository) GetMembership(ctx context.Context, userID, tenantID shared.ID) (*tenant.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, permissions, active, created_at, updated_at
		FROM tenant_members
		WHERE user_id = $1 AND tenant_id = $2
	`
	return r.scanMembership(r.db.QueryRowContext(ctx, query, userID, tenantID))
}

// UpdateMembership persists membership changes (permission overrides,
// active flag). Rows are never deleted.
func (r *TenantRepository) UpdateMembership(ctx context.Context, m *tenant.Membership) error {
	query := `
		UPDATE tenant_members
		SET permissions = $2, active = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		m.ID(), pq.Array(m.Permissions()), m.IsActive(), m.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: membership", shared.ErrNotFound)
	}
	return nil
}

// ListMembershipsByUser returns all memberships for a user, active and
// inactive, newest first.
func (r *TenantRepository) ListMembershipsByUser(ctx context.Context, userID shared.ID) ([]*tenant.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, permissions, active, created_at, updated_at
		FROM tenant_members
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.listMemberships(ctx, query, userID)
}

// ListMembersByTenant returns all memberships within a tenant.
func (r *TenantRepository) ListMembersByTenant(ctx context.Context, tenantID shared.ID) ([]*tenant.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, permissions, active, created_at, updated_at
		FROM tenant_members
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	return r.listMemberships(ctx, query, tenantID)
}

// ListAccessibleTenants returns the tenants a user holds an active
// membership in, flagged with whether each is the current tenant.
func (r *TenantRepository) ListAccessibleTenants(ctx context.Context, userID shared.ID) ([]*tenant.TenantAccess, error) {
	query := `
		SELECT t.id, t.company_id, t.name, t.code, t.created_at, t.updated_at,
		       m.active, m.created_at,
		       (u.current_tenant_id IS NOT NULL AND u.current_tenant_id = t.id)
		FROM tenant_members m
		JOIN tenants t ON t.id = m.tenant_id
		JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1 AND m.active = TRUE
		ORDER BY t.name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accessible tenants: %w", err)
	}
	defer rows.Close()

	var access []*tenant.TenantAccess
	for rows.Next() {
		var (
			id, companyID        shared.ID
			name, code           string
			createdAt, updatedAt time.Time
			active, current      bool
			joinedAt             time.Time
		)
		if err := rows.Scan(&id, &companyID, &name, &code, &createdAt, &updatedAt,
			&active, &joinedAt, &current); err != nil {
			return nil, fmt.Errorf("failed to scan accessible tenant: %w", err)
		}
		access = append(access, &tenant.TenantAccess{
			Tenant:   tenant.Reconstitute(id, companyID, name, code, createdAt, updatedAt),
			Active:   active,
			Current:  current,
			JoinedAt: joinedAt,
		})
	}
	return access, rows.Err()
}

// SwitchCurrentTenant validates and applies a tenant switch in a single
// transaction. The user row is locked so the membership check and the
// pointer update take effect together or not at all; concurrent
// switches for the same principal serialize on the row lock.
func (r *TenantRepository) SwitchCurrentTenant(ctx context.Context, userID, tenantID shared.ID) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		var userCompanyID shared.ID
		err := tx.QueryRowContext(ctx,
			`SELECT company_id FROM users WHERE id = $1 FOR UPDATE`, userID,
		).Scan(&userCompanyID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: user", shared.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock user row: %w", err)
		}

		var (
			active          bool
			tenantCompanyID shared.ID
		)
		err = tx.QueryRowContext(ctx, `
			SELECT m.active, t.company_id
			FROM tenant_members m
			JOIN tenants t ON t.id = m.tenant_id
			WHERE m.user_id = $1 AND m.tenant_id = $2
		`, userID, tenantID).Scan(&active, &tenantCompanyID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no membership for tenant", shared.ErrTenantMismatch)
		}
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}

		if !active {
			return fmt.Errorf("%w: membership was revoked", shared.ErrMembershipInactive)
		}
		if !tenantCompanyID.Equals(userCompanyID) {
			return fmt.Errorf("%w: tenant belongs to another company", shared.ErrTenantMismatch)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET current_tenant_id = $2, updated_at = $3 WHERE id = $1`,
			userID, tenantID, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to update current tenant: %w", err)
		}
		return nil
	})
}

func (r *TenantRepository) listMemberships(ctx context.Context, query string, arg any) ([]*tenant.Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*tenant.Membership
	for rows.Next() {
		m, err := r.scanMembershipRow(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *TenantRepository) scanTenant(row *sql.Row) (*tenant.Tenant, error) {
	var (
		id, companyID        shared.ID
		name, code           string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &companyID, &name, &code, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tenant", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	return tenant.Reconstitute(id, companyID, name, code, createdAt, updatedAt), nil
}

func (r *TenantRepository) scanTenantRow(rows *sql.Rows) (*tenant.Tenant, error) {
	var (
		id, companyID        shared.ID
		name, code           string
		createdAt, updatedAt time.Time
	)
	if err := rows.Scan(&id, &companyID, &name, &code, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	return tenant.Reconstitute(id, companyID, name, code, createdAt, updatedAt), nil
}

func (r *TenantRepository) scanMembership(row *sql.Row) (*tenant.Membership, error) {
	var (
		id, userID, tenantID shared.ID
		permissions          []string
		active               bool
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &userID, &tenantID, pq.Array(&permissions), &active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: membership", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan membership: %w", err)
	}
	return tenant.ReconstituteMembership(id, userID, tenantID, permissions, active, createdAt, updatedAt), nil
}

func (r *TenantRepository) scanMembershipRow(rows *sql.Rows) (*tenant.Membership, error) {
	var (
		id, userID, tenantID shared.ID
		permissions          []string
		active               bool
		createdAt, updatedAt time.Time
	)
	if err := rows.Scan(&id, &userID, &tenantID, pq.Array(&permissions), &active, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan membership: %w", err)
	}
	return tenant.ReconstituteMembership(id, userID, tenantID, permissions, active, createdAt, updatedAt), nil
}
