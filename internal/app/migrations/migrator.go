package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var embedded embed.FS

// Dialect selects the SQL flavour of the bundled migrations
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Migrator manages database migrations
type Migrator struct {
	db      *sql.DB
	dialect Dialect
	sb      squirrel.StatementBuilderType
	logger  zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *sql.DB, dialect Dialect, logger zerolog.Logger) (*Migrator, error) {
	format := squirrel.PlaceholderFormat(squirrel.Question)
	switch dialect {
	case DialectPostgres:
		format = squirrel.Dollar
	case DialectSQLite:
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	return &Migrator{
		db:      db,
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(format),
		logger:  logger,
	}, nil
}

// Migrate applies the bundled migrations for the migrator's dialect
func (m *Migrator) Migrate(ctx context.Context) error {
	files, err := fs.Sub(embedded, path.Join("sql", string(m.dialect)))
	if err != nil {
		return fmt.Errorf("failed to open bundled migrations: %w", err)
	}
	return m.MigrateFS(ctx, files)
}

// MigrateFS applies every *.sql file at the root of fsys in lexical order.
// The version of a file is the prefix before its first underscore
// ("001_init.sql" => "001"); applied versions are skipped.
func (m *Migrator) MigrateFS(ctx context.Context, fsys fs.FS) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, name := range sqlFiles {
		if err := m.migrateFile(ctx, fsys, name); err != nil {
			return err
		}
	}

	return nil
}

// AppliedVersions lists applied migration versions in order
func (m *Migrator) AppliedVersions(ctx context.Context) ([]string, error) {
	query, args, err := m.sb.Select("version").From("schema_migrations").OrderBy("version ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build applied versions query: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	versions := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	query, args, err := m.sb.Select("COUNT(*)").
		From("schema_migrations").
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build migration status query: %w", err)
	}

	var n int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return n > 0, nil
}

// migrateFile runs one migration file and records it in the same transaction
func (m *Migrator) migrateFile(ctx context.Context, fsys fs.FS, name string) error {
	version := strings.SplitN(name, "_", 2)[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("migration", name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}

	record, args, err := m.sb.Insert("schema_migrations").
		Columns("version", "applied_at").
		Values(version, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build migration record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", name, err)
	}

	m.logger.Info().Str("migration", name).Str("dialect", string(m.dialect)).Msg("Migration applied")
	return nil
}
