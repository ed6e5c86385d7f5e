package store

import (
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// migrations holds the schema of the MySQL store.
//
//go:embed migrations/*.sql
var migrations embed.FS

// Migrate runs a goose command ("up", "down", "status" or "version") against the database using
// the embedded migrations. Progress is written to logger.
func Migrate(db *sql.DB, command string, logger goose.Logger) error {
	goose.SetBaseFS(migrations)
	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect("mysql"); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}
	var err error
	switch command {
	case "up":
		err = goose.Up(db, "migrations")
	case "down":
		err = goose.Down(db, "migrations")
	case "status":
		err = goose.Status(db, "migrations")
	case "version":
		err = goose.Version(db, "migrations")
	default:
		return errors.Errorf("unknown migration command %q", command)
	}
	return errors.Wrapf(err, "migrate %s", command)
}
