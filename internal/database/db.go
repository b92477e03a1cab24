// Package database opens the MySQL connection pool and applies the
// relational schema. The schema covers the events catalog (venues,
// artists, genres, shows and the two genre join tables), the quiz bank
// (questions, categories) and the users table used for authentication.
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
	// DATETIME values are scanned as strings in the repositories, so the
	// DSN deliberately omits parseTime. loc=UTC keeps times consistent.
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&loc=UTC",
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

// schema lists one DDL statement per entry because the MySQL driver does
// not execute multi-statement strings by default.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(120) NOT NULL,
		state VARCHAR(120) NOT NULL,
		address VARCHAR(120) NOT NULL DEFAULT '',
		phone VARCHAR(120) NOT NULL DEFAULT '',
		image_link VARCHAR(500) NOT NULL DEFAULT '',
		facebook_link VARCHAR(120) NOT NULL DEFAULT '',
		website_link VARCHAR(120) NOT NULL DEFAULT '',
		status VARCHAR(120) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(120) NOT NULL,
		state VARCHAR(120) NOT NULL,
		phone VARCHAR(120) NOT NULL DEFAULT '',
		image_link VARCHAR(500) NOT NULL DEFAULT '',
		facebook_link VARCHAR(120) NOT NULL DEFAULT '',
		website_link VARCHAR(120) NOT NULL DEFAULT '',
		status VARCHAR(120) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS venue_genres (
		venue_id BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		PRIMARY KEY (venue_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS artist_genres (
		artist_id BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		PRIMARY KEY (artist_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		artist_id BIGINT NOT NULL,
		venue_id BIGINT NOT NULL,
		date DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		type VARCHAR(120) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		difficulty INT NOT NULL,
		category BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate applies the schema. Every statement is idempotent so Migrate can
// run on each startup.
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
