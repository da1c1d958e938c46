package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"
)

// Runner executes pending database migrations.
type Runner struct {
	db            *sql.DB
	migrationsDir string
}

// NewRunner creates a new migration runner.
func NewRunner(db *sql.DB, migrationsDir string) *Runner {
	return &Runner{
		db:            db,
		migrationsDir: migrationsDir,
	}
}

// Record represents a row in the schema_migrations table.
type Record struct {
	Version   string
	AppliedAt time.Time
}

// EnsureMigrationTable creates the schema_migrations table if it does
// not exist.
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(14) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// Applied returns all applied migration records in version order.
func (r *Runner) Applied(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Version, &rec.AppliedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Pending returns the migrations not yet applied.
func (r *Runner) Pending(ctx context.Context) ([]Migration, error) {
	available, err := LoadFromDir(r.migrationsDir, "up")
	if err != nil {
		return nil, err
	}

	applied, err := r.Applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, rec := range applied {
		appliedSet[rec.Version] = true
	}

	var pending []Migration
	for _, m := range available {
		if !appliedSet[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Up applies all pending migrations, each in its own transaction.
// Returns the number of migrations applied.
func (r *Runner) Up(ctx context.Context) (int, error) {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure migration table: %w", err)
	}

	pending, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, m := range pending {
		if err := r.apply(ctx, m); err != nil {
			return i, fmt.Errorf("migration %s failed: %w", m, err)
		}
	}
	return len(pending), nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	contents, err := os.ReadFile(m.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, string(contents)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return err
	}
	return tx.Commit()
}
