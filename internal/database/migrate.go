package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrSchemaOutdated is returned when the database is behind the embedded migrations
var ErrSchemaOutdated = errors.New("database schema is not up to date, run the migrate command")

func newProvider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return p, nil
}

// Migrate applies all pending migrations
func Migrate(ctx context.Context, db *gorm.DB) error {
	p, err := newProvider(db)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Rollback reverts the most recent migration
func Rollback(ctx context.Context, db *gorm.DB) error {
	p, err := newProvider(db)
	if err != nil {
		return err
	}
	if _, err := p.Down(ctx); err != nil {
		return fmt.Errorf("revert migration: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied version and the latest embedded version.
// It only reads: a database that was never migrated reports version 0 and
// is left untouched.
func SchemaVersion(ctx context.Context, db *gorm.DB) (current, latest int64, err error) {
	p, err := newProvider(db)
	if err != nil {
		return 0, 0, err
	}

	sources := p.ListSources()
	if len(sources) > 0 {
		latest = sources[len(sources)-1].Version
	}

	if !db.WithContext(ctx).Migrator().HasTable(goose.DefaultTablename) {
		return 0, latest, nil
	}
	current, _, err = p.GetVersions(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("read schema version: %w", err)
	}
	return current, latest, nil
}

// EnsureMigrated fails with ErrSchemaOutdated unless every embedded migration is applied
func EnsureMigrated(ctx context.Context, db *gorm.DB) error {
	current, latest, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("%w (at %d, want %d)", ErrSchemaOutdated, current, latest)
	}
	return nil
}
