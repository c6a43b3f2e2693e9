package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"formdesk/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Connect opens the pool and pings it, retrying a few times in case of
// temporary DNS or network blips.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database connection: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	for i := 0; i < connectAttempts; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return db, nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in %s... (%v)", connectBackoff, err)
		time.Sleep(connectBackoff)
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", connectAttempts, err)
}

func newMigrate(dsn string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	logger.Sugar.Infow("Migrations applied", "version", version, "dirty", dirty)
	return nil
}

// MigrateDown rolls back steps migrations.
func MigrateDown(dsn string, steps int) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	logger.Sugar.Infof("Rolled back %d migration(s)", steps)
	return nil
}

// Ready pings the database within a short deadline.
func Ready(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
