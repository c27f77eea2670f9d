package migrator

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies every *.sql file under fsys not applied yet, sorted by name.
// Each file runs in its own retrying transaction together with its bookkeeping row.
// It returns the names of the applied migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) ([]string, error) {
	if err := ensureMigrationsTable(ctx, pool); err != nil {
		return nil, err
	}

	matches, err := fs.Glob(fsys, "*/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}

	slices.Sort(matches)

	var applied []string
	for _, match := range matches {
		name := strings.TrimSuffix(path.Base(match), ".sql")

		b, err := fs.ReadFile(fsys, match)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		var ran bool
		err = crdbpgx.ExecuteTx(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
			exists, err := migrationExists(ctx, tx, name)
			if err != nil || exists {
				ran = false
				return err
			}

			if _, err := tx.Exec(ctx, string(b)); err != nil {
				return fmt.Errorf("sql exec migration %s: %w", name, err)
			}

			ran = true
			return recordMigration(ctx, tx, name)
		})
		if err != nil {
			return applied, err
		}

		if ran {
			applied = append(applied, name)
		}
	}

	return applied, nil
}

func ensureMigrationsTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			name VARCHAR NOT NULL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("sql create migrations table: %w", err)
	}
	return nil
}

func migrationExists(ctx context.Context, tx pgx.Tx, name string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM migrations WHERE name = $1
		)
	`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sql check migration exists: %w", err)
	}
	return exists, nil
}

func recordMigration(ctx context.Context, tx pgx.Tx, name string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO migrations (name) VALUES ($1)
	`, name)
	if err != nil {
		return fmt.Errorf("sql record migration: %w", err)
	}
	return nil
}
