package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/propertydesk/pkg/db"
	"gorm.io/gorm"
)

var ErrUnsupportedDialect = errors.New("unsupported migration dialect")

// RunMigrations applies the embedded schema for dbType. MySQL and PostgreSQL go
// through golang-migrate; SQLite gets the flat schema file used for local runs
// and tests.
func RunMigrations(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if dbType == db.TypeSQLite {
		return ApplySQLiteSchema(context.Background(), conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return runVersioned(sqlDB, dbType)
}

func runVersioned(sqlDB *sql.DB, dbType string) error {
	sub, err := fs.Sub(embeddedMigrations, path.Join(migrationsDir, dbType))
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	var driver database.Driver
	switch dbType {
	case db.TypePostgres:
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	case db.TypeMySQL:
		driver, err = mysql.WithInstance(sqlDB, &mysql.Config{})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDialect, dbType)
	}
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, dbType, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// ApplySQLiteSchema creates every table and the water_usage view on a SQLite
// connection. Statements are idempotent.
func ApplySQLiteSchema(ctx context.Context, conn *gorm.DB) error {
	raw, err := embeddedMigrations.ReadFile(path.Join(migrationsDir, db.TypeSQLite, "schema.sql"))
	if err != nil {
		return fmt.Errorf("read sqlite schema: %w", err)
	}

	for _, stmt := range splitStatements(string(raw)) {
		if err := conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	stmts := make([]string, 0, len(parts))
	for _, part := range parts {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
