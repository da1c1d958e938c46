// Package migrations provides filesystem-based database migration
// loading and execution. Migration files follow the naming scheme
// {version}_{name}.{up|down}.sql and apply in version order.
package migrations

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Migration represents a database migration file.
type Migration struct {
	Version   string
	Name      string
	Direction string
	FilePath  string
}

// String returns the migration identifier.
func (m Migration) String() string {
	return fmt.Sprintf("%s_%s.%s.sql", m.Version, m.Name, m.Direction)
}

// LoadFromDir loads migrations for the given direction from a
// directory, sorted by version.
func LoadFromDir(dir, direction string) ([]Migration, error) {
	var migrations []Migration

	suffix := fmt.Sprintf(".%s.sql", direction)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, suffix) {
			return nil
		}

		baseName := strings.TrimSuffix(filepath.Base(path), suffix)
		parts := strings.SplitN(baseName, "_", 2)
		if len(parts) != 2 {
			return nil
		}

		migrations = append(migrations, Migration{
			Version:   parts[0],
			Name:      parts[1],
			Direction: direction,
			FilePath:  path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan migrations: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}
