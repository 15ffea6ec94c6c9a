package database

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/blogem/object-log/database/migrations"
)

// goose keeps its base FS, dialect and logger in package globals
var gooseMu sync.Mutex

// Migrate runs a goose command ("up", "down" or "status") against the embedded migrations
func Migrate(db *sql.DB, command string, log *logrus.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if log != nil {
		goose.SetLogger(log)
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	// The migrations are embedded at the root of the FS
	dir := "."

	var err error
	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "status":
		err = goose.Status(db, dir)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	return nil
}
