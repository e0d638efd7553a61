package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator wraps golang-migrate with structured logging around each
// schema operation.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New builds a Migrator that reads versioned SQL files from
// migrationsPath and applies them over the given connection.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// run executes a schema operation, treating ErrNoChange as success.
// It reports whether anything was actually applied.
func (mg *Migrator) run(op string, fn func() error) (bool, error) {
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already up to date", zap.String("operation", op))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// logVersion records the schema version after a successful operation.
func (mg *Migrator) logVersion(op string) {
	version, dirty, err := mg.m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		mg.logger.Warn("Could not read schema version", zap.Error(err))
		return
	}
	mg.logger.Info("Schema operation completed",
		zap.String("operation", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	changed, err := mg.run("up", mg.m.Up)
	if err != nil {
		return err
	}
	if changed {
		mg.logVersion("up")
	}
	return nil
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	changed, err := mg.run("down", mg.m.Down)
	if err != nil {
		return err
	}
	if changed {
		mg.logger.Info("All migrations rolled back")
	}
	return nil
}

// Steps applies n migrations; negative n rolls back.
func (mg *Migrator) Steps(n int) error {
	changed, err := mg.run("steps", func() error { return mg.m.Steps(n) })
	if err != nil {
		return err
	}
	if changed {
		mg.logVersion("steps")
	}
	return nil
}

// GoTo migrates up or down until the schema is at the given version.
func (mg *Migrator) GoTo(version uint) error {
	changed, err := mg.run("goto", func() error { return mg.m.Migrate(version) })
	if err != nil {
		return fmt.Errorf("goto version %d: %w", version, err)
	}
	if changed {
		mg.logVersion("goto")
	}
	return nil
}

// Version returns the current schema version. A database with no
// applied migrations reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without executing SQL. Used to
// repair a dirty schema after a failed migration.
func (mg *Migrator) Force(version int) error {
	mg.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database, data included.
func (mg *Migrator) Drop() error {
	mg.logger.Warn("Dropping all database objects")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	return nil
}

// Close releases the source and database handles held by the migrator.
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
