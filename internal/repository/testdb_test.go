package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// testSchema mirrors the production DDL in sqlite dialect. Every query in
// this package sticks to portable SQL, so the in-memory database behaves
// like the real one.
var testSchema = []string{
	`CREATE TABLE venues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		image_link TEXT NOT NULL DEFAULT '',
		facebook_link TEXT NOT NULL DEFAULT '',
		website_link TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE artists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		image_link TEXT NOT NULL DEFAULT '',
		facebook_link TEXT NOT NULL DEFAULT '',
		website_link TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE venue_genres (
		venue_id INTEGER NOT NULL,
		genre_id INTEGER NOT NULL,
		PRIMARY KEY (venue_id, genre_id)
	)`,
	`CREATE TABLE artist_genres (
		artist_id INTEGER NOT NULL,
		genre_id INTEGER NOT NULL,
		PRIMARY KEY (artist_id, genre_id)
	)`,
	`CREATE TABLE shows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artist_id INTEGER NOT NULL,
		venue_id INTEGER NOT NULL,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		difficulty INTEGER NOT NULL,
		category INTEGER NOT NULL
	)`,
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// newTestDB opens an in-memory sqlite database. The pool is capped at a
// single connection because each sqlite :memory: connection gets its own
// private database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedGenre(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO genres (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedCategory(t *testing.T, db *sql.DB, typ string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO categories (type) VALUES (?)`, typ)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedVenue(t *testing.T, db *sql.DB, name, city, state string) int64 {
	t.Helper()
	r := NewVenueRepo(db)
	v := &Venue{Name: name, City: city, State: state}
	require.NoError(t, r.Create(context.Background(), v, nil))
	return v.ID
}

func seedArtist(t *testing.T, db *sql.DB, name, city, state string) int64 {
	t.Helper()
	r := NewArtistRepo(db)
	a := &Artist{Name: name, City: city, State: state}
	require.NoError(t, r.Create(context.Background(), a, nil))
	return a.ID
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
