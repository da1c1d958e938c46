package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stocklane/api/pkg/domain/permission"
	"github.com/stocklane/api/pkg/domain/shared"
)

// PermissionRepository implements permission.Repository using PostgreSQL.
type PermissionRepository struct {
	db *DB
}

// NewPermissionRepository creates a new PermissionRepository.
func NewPermissionRepository(db *DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Create stores a new permission record. Duplicate names are rejected
// via the unique constraint on the name column.
func (r *PermissionRepository) Create(ctx context.Context, rec *permission.Record) error {
	query := `
		INSERT INTO permissions (id, name, module, guard, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID(), rec.Name(), rec.Module(), rec.Guard(), rec.Description(), rec.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: permission %q", shared.ErrAlreadyExists, rec.Name())
		}
		return fmt.Errorf("failed to create permission: %w", err)
	}
	return nil
}

// GetByID retrieves a permission record by ID.
func (r *PermissionRepository) GetByID(ctx context.Context, id shared.ID) (*permission.Record, error) {
	query := `
		SELECT id, name, module, guard, description, created_at
		FROM permissions
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a permission record by name.
func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*permission.Record, error) {
	query := `
		SELECT id, name, module, guard, description, created_at
		FROM permissions
		WHERE name = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// List returns all permission records ordered by name.
func (r *PermissionRepository) List(ctx context.Context) ([]*permission.Record, error) {
	query := `
		SELECT id, name, module, guard, description, created_at
		FROM permissions
		ORDER BY module ASC, name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var records []*permission.Record
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListByModule returns the permission catalog grouped by module. The
// set of modules is whatever the stored records declare.
func (r *PermissionRepository) ListByModule(ctx context.Context) (map[string][]*permission.Record, error) {
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

func (r *PermissionRepository) scanOne(row *sql.Row) (*permission.Record, error) {
	var (
		id                  shared.ID
		name, module, guard string
		description         sql.NullString
		createdAt           time.Time
	)
	err := row.Scan(&id, &name, &module, &guard, &description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: permission", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan permission: %w", err)
	}
	return permission.ReconstituteRecord(id, name, module, guard, nullStringValue(description), createdAt), nil
}

func (r *PermissionRepository) scanRow(rows *sql.Rows) (*permission.Record, error) {
	var (
		id                  shared.ID
		name, module, guard string
		description         sql.NullString
		createdAt           time.Time
	)
	if err := rows.Scan(&id, &name, &module, &guard, &description, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan permission: %w", err)
	}
	return permission.ReconstituteRecord(id, name, module, guard, nullStringValue(description), createdAt), nil
}
