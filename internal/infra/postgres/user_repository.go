package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/domain/user"
)

// UserRepository implements user.Repository using PostgreSQL.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, company_id, email, name, password_hash, current_tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID(), u.CompanyID(), u.Email(), u.Name(), u.PasswordHash(),
		nullID(u.CurrentTenantID()), u.CreatedAt(), u.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %q", shared.ErrAlreadyExists, u.Email())
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID, including role assignments.
func (r *UserRepository) GetByID(ctx context.Context, id shared.ID) (*user.User, error) {
	query := `
		SELECT id, company_id, email, name, password_hash, current_tenant_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email, including role assignments.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, company_id, email, name, password_hash, current_tenant_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.getOne(ctx, query, strings.ToLower(email))
}

// Update updates a user, including the current-tenant pointer.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = $2, password_hash = $3, current_tenant_id = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		u.ID(), u.Name(), u.PasswordHash(), nullID(u.CurrentTenantID()), u.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user", shared.ErrNotFound)
	}
	return nil
}

// ExistsByEmail checks whether an email is taken.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, strings.ToLower(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// AssignRole assigns a role to a user. Idempotent.
func (r *UserRepository) AssignRole(ctx context.Context, userID, roleID shared.ID) error {
	query := `
		INSERT INTO user_roles (user_id, role_id, assigned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// RemoveRole removes a role assignment.
func (r *UserRepository) RemoveRole(ctx context.Context, userID, roleID shared.ID) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	return nil
}

// ListRoleIDs returns the role IDs assigned to a user.
func (r *UserRepository) ListRoleIDs(ctx context.Context, userID shared.ID) ([]shared.ID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role_id FROM user_roles WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list role ids: %w", err)
	}
	defer rows.Close()

	var ids []shared.ID
	for rows.Next() {
		var id shared.ID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan role id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var (
		id, companyID             shared.ID
		email, name, passwordHash string
		currentTenantID           sql.NullString
		createdAt, updatedAt      time.Time
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id, &companyID, &email, &name, &passwordHash, &currentTenantID, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	roleIDs, err := r.ListRoleIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return user.Reconstitute(
		id, companyID, email, name, passwordHash,
		roleIDs, nullIDValue(currentTenantID), createdAt, updatedAt,
	), nil
}
