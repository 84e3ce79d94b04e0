// AngelaMos | 2026
// migrate.go

package core

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// Migration files are named {version}_{name}.sql, e.g. 0001_init.sql.
// Anything else in the FS is ignored.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

type migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrate applies pending SQL migrations from fsys in version order and
// returns how many were applied. Each migration runs in its own
// transaction together with its schema_migrations bookkeeping row.
func Migrate(ctx context.Context, db *sqlx.DB, fsys fs.FS) (int, error) {
	const trackingTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	if _, err := db.ExecContext(ctx, trackingTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	migrations, err := parseMigrations(fsys)
	if err != nil {
		return 0, err
	}

	var appliedVersions []int
	err = db.SelectContext(
		ctx,
		&appliedVersions,
		`SELECT version FROM schema_migrations`,
	)
	if err != nil {
		return 0, fmt.Errorf("read applied migrations: %w", err)
	}

	applied := make(map[int]bool, len(appliedVersions))
	for _, v := range appliedVersions {
		applied[v] = true
	}

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		err := InTx(ctx, db, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(
				ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				m.Version,
				m.Name,
			)
			return err
		})
		if err != nil {
			return count, fmt.Errorf(
				"apply migration %04d_%s: %w", m.Version, m.Name, err,
			)
		}

		count++
	}

	return count, nil
}

func parseMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}

	migrations := make([]migration, 0, len(entries))
	for _, name := range entries {
		matches := migrationFilePattern.FindStringSubmatch(name)
		if matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version %q: %w", name, err)
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}

		migrations = append(migrations, migration{
			Version: version,
			Name:    matches[2],
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}
