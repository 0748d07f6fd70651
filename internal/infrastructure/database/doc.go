// Package database provides the SQLite store behind the device operation journal.
//
// The database is optional. When enabled it is opened once at startup with
// WAL mode and a busy timeout, migrated from the embedded SQL files, and
// closed on shutdown. A single connection is used since the controller is
// the only writer.
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql and are
// applied in version order, each in its own transaction.
package database
