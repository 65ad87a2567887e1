package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/robotics-club/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// Migrations are compiled into the binary so deployments need no SQL files.
//
//go:embed migrations/*.sql
var migrations embed.FS

// LatestVersion migrates to the newest embedded migration.
const LatestVersion = -1

// Migrate applies every pending migration.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	return MigrateTo(ctx, logger, cfg, LatestVersion)
}

// MigrateTo moves the schema to target, which may be lower than the current
// version to roll back. LatestVersion means the newest migration.
func MigrateTo(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, target int32) error {
	conn, err := pgx.Connect(ctx, DSN(&cfg.Database))
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	to := target
	if to == LatestVersion {
		to = int32(len(m.Migrations))
	}

	if from == to {
		logger.Info().Msgf("database schema up to date, version %d", to)
		return nil
	}

	if err := m.MigrateTo(ctx, to); err != nil {
		return fmt.Errorf("migrating database from %d to %d: %w", from, to, err)
	}

	logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	return nil
}
