package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stocklane/api/pkg/domain/product"
	"github.com/stocklane/api/pkg/domain/shared"
	"github.com/stocklane/api/pkg/tenantctx"
)

// ProductRepository implements product.Repository using PostgreSQL.
// All queries are confined to the tenant bound into the request
// context; see scope.go.
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create persists a new product under the bound tenant. The row's
// tenant reference must match the resolved scope unless the scope is
// explicitly cross-tenant.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	scope, err := tenantctx.Require(ctx)
	if err != nil {
		return err
	}
	if !scope.CrossTenant && !scope.TenantID.Equals(p.TenantID()) {
		// Writing into a foreign tenant is reported as not found, the
		// same as reading, so existence never leaks.
		return fmt.Errorf("%w: product tenant outside request scope", shared.ErrNotFound)
	}

	query := `
		INSERT INTO products (id, tenant_id, sku, name, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID(), p.TenantID(), p.SKU(), p.Name(), p.Quantity(), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %q already exists in tenant", shared.ErrAlreadyExists, p.SKU())
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID within the bound tenant. A row
// owned by another tenant yields shared.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id shared.ID) (*product.Product, error) {
	query := `
		SELECT id, tenant_id, sku, name, quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	args := []any{id}

	cond, condArgs, err := tenantCondition(ctx, 2)
	if err != nil {
		return nil, err
	}
	query += cond
	args = append(args, condArgs...)

	return r.scanOne(r.db.QueryRowContext(ctx, query, args...))
}

// GetBySKU retrieves a product by SKU within the bound tenant.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	query := `
		SELECT id, tenant_id, sku, name, quantity, created_at, updated_at
		FROM products
		WHERE sku = $1
	`
	args := []any{sku}

	cond, condArgs, err := tenantCondition(ctx, 2)
	if err != nil {
		return nil, err
	}
	query += cond
	args = append(args, condArgs...)

	return r.scanOne(r.db.QueryRowContext(ctx, query, args...))
}

// List returns all products within the bound tenant.
func (r *ProductRepository) List(ctx context.Context) ([]*product.Product, error) {
	query := `
		SELECT id, tenant_id, sku, name, quantity, created_at, updated_at
		FROM products
		WHERE TRUE
	`
	var args []any

	cond, condArgs, err := tenantCondition(ctx, 1)
	if err != nil {
		return nil, err
	}
	query += cond + ` ORDER BY sku ASC`
	args = append(args, condArgs...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Count returns the number of products within the bound tenant.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE TRUE`
	var args []any

	cond, condArgs, err := tenantCondition(ctx, 1)
	if err != nil {
		return 0, err
	}
	query += cond
	args = append(args, condArgs...)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Update updates a product within the bound tenant. Updating a row
// owned by another tenant yields shared.ErrNotFound.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $2, quantity = $3, updated_at = $4
		WHERE id = $1
	`
	args := []any{p.ID(), p.Name(), p.Quantity(), p.UpdatedAt()}

	cond, condArgs, err := tenantCondition(ctx, 5)
	if err != nil {
		return err
	}
	query += cond
	args = append(args, condArgs...)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRowAffected(result)
}

// Delete removes a product within the bound tenant.
func (r *ProductRepository) Delete(ctx context.Context, id shared.ID) error {
	query := `DELETE FROM products WHERE id = $1`
	args := []any{id}

	cond, condArgs, err := tenantCondition(ctx, 2)
	if err != nil {
		return err
	}
	query += cond
	args = append(args, condArgs...)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRowAffected(result)
}

func (r *ProductRepository) scanOne(row *sql.Row) (*product.Product, error) {
	var (
		id, tenantID         shared.ID
		sku, name            string
		quantity             int
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &tenantID, &sku, &name, &quantity, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return product.Reconstitute(id, tenantID, sku, name, quantity, createdAt, updatedAt), nil
}

func (r *ProductRepository) scanRow(rows *sql.Rows) (*product.Product, error) {
	var (
		id, tenantID         shared.ID
		sku, name            string
		quantity             int
		createdAt, updatedAt time.Time
	)
	if err := rows.Scan(&id, &tenantID, &sku, &name, &quantity, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return product.Reconstitute(id, tenantID, sku, name, quantity, createdAt, updatedAt), nil
}

// requireRowAffected maps zero affected rows to shared.ErrNotFound so
// scoped updates and deletes of foreign rows are indistinguishable
// from missing rows.
func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product", shared.ErrNotFound)
	}
	return nil
}
