package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the portal's two tables.  The unique indexes are load-bearing:
// username and email are nullable, so accounts that never set them do not
// collide, and reviewer_id caps each reviewer at one application even when a
// concurrent submit slips past the repository pre-check.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		account_type VARCHAR(16) NOT NULL,
		username VARCHAR(64) NULL,
		email VARCHAR(255) NULL,
		password_hash VARCHAR(255) NOT NULL,
		subject_area VARCHAR(255) NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'Pending',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_accounts_username (username),
		UNIQUE KEY uq_accounts_email (email),
		KEY idx_accounts_type (account_type),
		KEY idx_accounts_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS applications (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reviewer_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		department VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		roles TEXT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'Pending',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_applications_reviewer (reviewer_id),
		KEY idx_applications_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the portal tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
