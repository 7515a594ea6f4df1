package sqlite

//nolint:revive
import (
	"errors"
	"fmt"
	"lockngo/migrations"

	"github.com/golang-migrate/migrate/v4"
	migrateSqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	migrationsDir   = "sqlite"
	migrationsTable = "schema_migrations"
)

// migrateUp applies the embedded migrations on conn. The migrate instance is
// not closed: its database driver would close conn with it.
func migrateUp(conn *sqlx.DB) error {
	src, err := iofs.New(migrations.FS, migrationsDir)
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}

	defer src.Close()

	driver, err := migrateSqlite.WithInstance(conn.DB, &migrateSqlite.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("error creating migrate driver: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	version, _, _ := mig.Version()
	log.Debug().Uint("version", version).Msg("Database migrations completed successfully")

	return nil
}
