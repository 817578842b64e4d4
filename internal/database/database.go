package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB creates and configures the MySQL connection pool for the given DSN.
// The DSN must carry parseTime=true so DATETIME columns scan into time.Time.
func OpenDB(dsn string) (*sql.DB, error) {
	// 1. Open a new connection pool.
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// 2. Configure the connection pool settings.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 3. Ping the database to verify the connection.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	log.Println("Database connection pool established successfully")
	return db, nil
}

// Migrate creates the tables marketfeed owns. It is safe to run on every start.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ad_drafts (
			id         CHAR(36)     NOT NULL PRIMARY KEY,
			user_id    VARCHAR(64)  NOT NULL,
			payload    JSON         NOT NULL,
			created_at DATETIME     NOT NULL,
			updated_at DATETIME     NOT NULL,
			INDEX idx_ad_drafts_user (user_id)
		)`)
	if err != nil {
		return fmt.Errorf("failed to migrate ad_drafts: %w", err)
	}
	return nil
}
