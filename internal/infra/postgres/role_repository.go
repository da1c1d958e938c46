package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/stocklane/api/pkg/domain/role"
	"github.com/stocklane/api/pkg/domain/shared"
)

// RoleRepository implements role.Repository using PostgreSQL.
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create persists a new role.
func (r *RoleRepository) Create(ctx context.Context, ro *role.Role) error {
	query := `
		INSERT INTO roles (id, name, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		ro.ID(), ro.Name(), ro.Description(), pq.Array(ro.Permissions()),
		ro.CreatedAt(), ro.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: role name %q", shared.ErrAlreadyExists, ro.Name())
		}
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

// GetByID retrieves a role by ID.
func (r *RoleRepository) GetByID(ctx context.Context, id shared.ID) (*role.Role, error) {
	query := `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a role by name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*role.Role, error) {
	query := `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles
		WHERE name = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// Update updates a role.
func (r *RoleRepository) Update(ctx context.Context, ro *role.Role) error {
	query := `
		UPDATE roles
		SET name = $2, description = $3, permissions = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		ro.ID(), ro.Name(), ro.Description(), pq.Array(ro.Permissions()), ro.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: role", shared.ErrNotFound)
	}
	return nil
}

// List returns all roles.
func (r *RoleRepository) List(ctx context.Context) ([]*role.Role, error) {
	query := `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// GetByIDs returns the roles for the given IDs, skipping missing ones.
func (r *RoleRepository) GetByIDs(ctx context.Context, ids []shared.ID) ([]*role.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	query := `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles
		WHERE id = ANY($1)
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(strIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get roles by ids: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *RoleRepository) scanOne(row *sql.Row) (*role.Role, error) {
	var (
		id                   shared.ID
		name, description    string
		permissions          []string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &name, &description, pq.Array(&permissions), &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: role", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan role: %w", err)
	}
	return role.Reconstitute(id, name, description, permissions, createdAt, updatedAt), nil
}

func (r *RoleRepository) collect(rows *sql.Rows) ([]*role.Role, error) {
	var roles []*role.Role
	for rows.Next() {
		var (
			id                   shared.ID
			name, description    string
			permissions          []string
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &name, &description, pq.Array(&permissions), &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role.Reconstitute(id, name, description, permissions, createdAt, updatedAt))
	}
	return roles, rows.Err()
}
