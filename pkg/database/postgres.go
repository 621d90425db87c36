package database

import (
	"database/sql"
	"fmt"
	"time"
)

// driverName is the database/sql name registered by github.com/jackc/pgx/v5/stdlib.
const driverName = "pgx"

// verify applies the pool limits and pings the database to verify the
// connection is alive. The pool is closed if the ping fails.
func verify(db *sql.DB) (*sql.DB, error) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return db, nil
}
