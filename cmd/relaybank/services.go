package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/relaybank/internal/infrastructure/config"
	"github.com/nerrad567/relaybank/internal/infrastructure/database"
	"github.com/nerrad567/relaybank/internal/infrastructure/influxdb"
	"github.com/nerrad567/relaybank/internal/infrastructure/logging"
	"github.com/nerrad567/relaybank/internal/journal"
	"github.com/nerrad567/relaybank/migrations"
)

// services holds the optional collaborators opened from configuration.
// Nil fields are disabled.
type services struct {
	db      *database.DB
	journal *journal.SQLiteRepository
	influx  *influxdb.Client
}

// openServices opens the journal database and the InfluxDB client when they
// are enabled. On error everything opened so far is closed again.
func openServices(ctx context.Context, cfg *config.Config, log *logging.Logger) (*services, error) {
	s := &services{}

	db, err := openJournalDB(ctx, cfg.Database)
	switch {
	case errors.Is(err, database.ErrDisabled):
		log.Info("journal disabled")
	case err != nil:
		return nil, err
	default:
		s.db = db
		s.journal = journal.NewSQLiteRepository(db.DB)
		log.Info("journal opened", "path", db.Path())
	}

	if cfg.InfluxDB.Enabled {
		influx, err := influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			s.close(log)
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		influx.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		s.influx = influx
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "org", cfg.InfluxDB.Org, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	return s, nil
}

// openJournalDB opens the database and applies the embedded migrations.
func openJournalDB(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, database.ErrDisabled) {
			return nil, err
		}
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// record writes e to the journal when it is enabled.
func (s *services) record(ctx context.Context, e *journal.Entry, log *logging.Logger) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, e); err != nil {
		log.Warn("journal write failed", "op", e.Kind, "error", err)
	}
}

func (s *services) close(log *logging.Logger) {
	if s.influx != nil {
		if err := s.influx.Close(); err != nil {
			log.Error("error closing InfluxDB", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}
}
