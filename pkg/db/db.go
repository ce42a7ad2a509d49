package db

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	log "github.com/sirupsen/logrus"
)

// Connect initializes the database connection pool.
// The returned handle is injected into the query store rather than held as a
// package global, so tests can substitute their own store implementations.
func Connect(dbURL string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		return nil, err
	}

	if err = conn.Ping(); err != nil {
		log.Errorf("Failed to ping database: %v", err)
		conn.Close()
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)

	log.Info("Database connection pool initialized successfully.")
	return conn, nil
}
