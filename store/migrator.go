package store

import (
	"context"
	"fmt"
	"log/slog"

	"embed"

	"github.com/pkg/errors"
)

//go:embed migration
var migrationFS embed.FS

//go:embed seed
var seedFS embed.FS

const (
	// LatestSchemaFileName is the full schema applied to fresh installations.
	LatestSchemaFileName = "LATEST.sql"
	// SeedFileName holds the demo dataset applied in demo mode.
	SeedFileName = "SEED.sql"
)

// Migrate initializes the database schema and, in demo mode, seeds demo data.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}

	if !initialized {
		if err := s.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		slog.Info("database initialized", "driver", s.profile.Driver)
	}

	if s.profile.Mode == "demo" {
		if err := s.seedDemoData(ctx); err != nil {
			return errors.Wrap(err, "failed to seed demo data")
		}
	}

	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	filePath := fmt.Sprintf("migration/%s/%s", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %q", filePath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to execute latest schema")
	}
	return nil
}

func (s *Store) seedDemoData(ctx context.Context) error {
	// Only seed once; an existing barbershop means the seed already ran.
	shops, err := s.driver.ListBarbershops(ctx, &FindBarbershop{})
	if err != nil {
		return errors.Wrap(err, "failed to check existing barbershops")
	}
	if len(shops) > 0 {
		return nil
	}

	filePath := fmt.Sprintf("seed/%s/%s", s.profile.Driver, SeedFileName)
	buf, err := seedFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read seed file %q", filePath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to execute seed file")
	}
	slog.Info("demo data seeded")
	return nil
}
