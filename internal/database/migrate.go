package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/at-ishikawa/cardsrs/schemas"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) NOT NULL PRIMARY KEY,
    applied_at DATETIME NOT NULL
)`

// Migrate applies the embedded migrations for the connection's driver that have not
// been applied yet, in file name order. It returns the names of applied files.
func Migrate(ctx context.Context, db *sqlx.DB, logger logrus.FieldLogger) ([]string, error) {
	dir := path.Join("migrations", db.DriverName())
	entries, err := fs.ReadDir(schemas.Migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadDir(%s) > %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("db.ExecContext(create schema_migrations) > %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, "SELECT version FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(schema_migrations) > %w", err)
	}
	done := make(map[string]struct{}, len(applied))
	for _, version := range applied {
		done[version] = struct{}{}
	}

	var result []string
	for _, name := range names {
		if _, ok := done[name]; ok {
			continue
		}
		content, err := fs.ReadFile(schemas.Migrations, path.Join(dir, name))
		if err != nil {
			return result, fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return result, fmt.Errorf("apply migration %s > %w", name, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			name, timeNow().UTC()); err != nil {
			return result, fmt.Errorf("db.ExecContext(insert schema_migrations) > %w", err)
		}
		logger.WithField("migration", name).Info("applied migration")
		result = append(result, name)
	}
	return result, nil
}

var timeNow = time.Now
