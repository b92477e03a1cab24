package handler

import (
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mkarlsson/showtime/internal/config"
	"github.com/mkarlsson/showtime/internal/repository"
)

// testSchema is the production DDL in sqlite dialect; the repositories only
// use portable SQL, so an in-memory database stands in for MySQL here.
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
	`CREATE TABLE genres (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)`,
	`CREATE TABLE venue_genres (venue_id INTEGER NOT NULL, genre_id INTEGER NOT NULL, PRIMARY KEY (venue_id, genre_id))`,
	`CREATE TABLE artist_genres (artist_id INTEGER NOT NULL, genre_id INTEGER NOT NULL, PRIMARY KEY (artist_id, genre_id))`,
	`CREATE TABLE shows (id INTEGER PRIMARY KEY AUTOINCREMENT, artist_id INTEGER NOT NULL, venue_id INTEGER NOT NULL, date TEXT NOT NULL)`,
	`CREATE TABLE categories (id INTEGER PRIMARY KEY AUTOINCREMENT, type TEXT NOT NULL UNIQUE)`,
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

type testEnv struct {
	e       *echo.Echo
	db      *sql.DB
	catalog *CatalogHandler
	quiz    *QuizHandler
	auth    *AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each sqlite :memory: connection is its own database.
	db.SetMaxOpenConns(1)
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, BcryptCost: 4}
	return &testEnv{
		e:  echo.New(),
		db: db,
		catalog: &CatalogHandler{
			Venues:  repository.NewVenueRepo(db),
			Artists: repository.NewArtistRepo(db),
			Genres:  repository.NewGenreRepo(db),
			Shows:   repository.NewShowRepo(db),
		},
		quiz: &QuizHandler{
			Questions:  repository.NewQuestionRepo(db),
			Categories: repository.NewCategoryRepo(db),
		},
		auth: &AuthHandler{Cfg: cfg, Users: repository.NewUserRepo(db)},
	}
}

// call invokes a handler directly with an optional JSON body and optional
// ":id" path parameter, returning the recorded response.
func (env *testEnv) call(t *testing.T, h echo.HandlerFunc, method, target, body, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	c.SetPath(target)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	require.NoError(t, h(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func (env *testEnv) seedCategory(t *testing.T, typ string) int64 {
	t.Helper()
	res, err := env.db.Exec(`INSERT INTO categories (type) VALUES (?)`, typ)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func (env *testEnv) seedQuestion(t *testing.T, text string, categoryID int64) int64 {
	t.Helper()
	res, err := env.db.Exec(
		`INSERT INTO questions (question, answer, difficulty, category) VALUES (?, ?, 1, ?)`,
		text, "answer", categoryID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func (env *testEnv) seedVenue(t *testing.T, name, city, state string) int64 {
	t.Helper()
	res, err := env.db.Exec(
		`INSERT INTO venues (name, city, state) VALUES (?, ?, ?)`, name, city, state)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func fieldList(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["fields"].([]any)
	require.True(t, ok, "response has no fields list: %v", body)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		out = append(out, f.(string))
	}
	return out
}
