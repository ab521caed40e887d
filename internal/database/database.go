package database

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Connect opens the SQLite database at the given path (":memory:" for tests).
// A single connection keeps sqlite writers serialized.
func Connect(path string) *sqlx.DB {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(1)
	return db
}
