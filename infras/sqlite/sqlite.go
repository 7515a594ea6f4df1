// Package sqlite is the entity store: an SQLite database opened through sqlx,
// in memory unless DB_DSN names a file. Every statement goes through a single
// connection, so transactions are serialized. Per-key locks serialize the
// read-check-write of a single entity across transactions.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/config"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	sqliteDriver "modernc.org/sqlite"
	sqliteLib "modernc.org/sqlite/lib"
)

const (
	driverName = "sqlite"
	memoryDSN  = ":memory:"

	// An in-memory database lives and dies with its connection.
	maxConnections = 1
)

type DB struct {
	*sqlx.DB
	locks *keyedMutex
}

// New opens the configured store and applies the schema. Startup stops when
// that fails.
func New(cfg *config.Config) *DB {
	dsn := cfg.DB.DSN
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", dsn).Msg("Failed to open database")
	}

	log.Info().Str("dsn", dsn).Msg("Connected to database")

	return db
}

// Open connects to dsn and migrates the schema to the latest version.
func Open(dsn string) (*DB, error) {
	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(maxConnections)
	conn.SetMaxIdleConns(maxConnections)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	if err = migrateUp(conn); err != nil {
		return nil, err
	}

	return &DB{DB: conn, locks: newKeyedMutex()}, nil
}

// Lock acquires the exclusive lock for key and returns its release func.
func (db *DB) Lock(key string) (unlock func()) {
	return db.locks.lock(key)
}

// View runs fn in a transaction that is always rolled back.
func (db *DB) View(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin read: %w", err)
	}

	defer rollback(tx)

	return fn(tx)
}

// Update runs fn in a transaction, committed when fn returns nil and rolled
// back otherwise. fn must not call View or Update itself: the only connection
// is held by tx.
func (db *DB) Update(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write: %w", err)
	}

	if err = fn(tx); err != nil {
		rollback(tx)

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Warn().Err(err).Msg("rollback failed")
	}
}

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint.
func IsUniqueViolation(err error) bool {
	var sqliteErr *sqliteDriver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	switch sqliteErr.Code() {
	case sqliteLib.SQLITE_CONSTRAINT_UNIQUE, sqliteLib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	default:
		return false
	}
}
