// Package repository contains the genre vocabulary and the tag association
// manager. Genres form a closed reference set that venues and artists point
// into but never own; memberships live in the venue_genres and
// artist_genres join tables with composite uniqueness on (entity, genre).
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Genre is one entry of the immutable genre vocabulary.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreRepo manages the vocabulary and tag memberships for both tagged
// entity kinds.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo constructs a GenreRepo with the provided DB handle.
func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// List returns the full vocabulary ordered by ascending id.
func (r *GenreRepo) List(ctx context.Context) ([]Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TagVenue adds one genre membership to a venue. Tagging an already-tagged
// pair is idempotent: the existing row is kept and no error is returned.
// A genre id outside the vocabulary is rejected with ErrUnknownTag.
func (r *GenreRepo) TagVenue(ctx context.Context, venueID, genreID int64) error {
	return r.tag(ctx, "venue_genres", "venue_id", venueID, genreID)
}

// TagArtist adds one genre membership to an artist with the same
// idempotency and vocabulary rules as TagVenue.
func (r *GenreRepo) TagArtist(ctx context.Context, artistID, genreID int64) error {
	return r.tag(ctx, "artist_genres", "artist_id", artistID, genreID)
}

func (r *GenreRepo) tag(ctx context.Context, table, column string, entityID, genreID int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM genres WHERE id = ?`, genreID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrUnknownTag
		}
		return err
	}
	// Check-then-insert keeps the statement portable; the composite primary
	// key on the join table backstops concurrent tagging of the same pair.
	var n int
	q := `SELECT COUNT(*) FROM ` + table + ` WHERE ` + column + ` = ? AND genre_id = ?`
	if err = tx.QueryRowContext(ctx, q, entityID, genreID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	q = `INSERT INTO ` + table + ` (` + column + `, genre_id) VALUES (?, ?)`
	_, err = tx.ExecContext(ctx, q, entityID, genreID)
	return err
}

// UntagAllVenue removes every genre membership of a venue. Removing zero
// rows is not an error.
func (r *GenreRepo) UntagAllVenue(ctx context.Context, venueID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM venue_genres WHERE venue_id = ?`, venueID)
	return err
}

// UntagAllArtist removes every genre membership of an artist.
func (r *GenreRepo) UntagAllArtist(ctx context.Context, artistID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM artist_genres WHERE artist_id = ?`, artistID)
	return err
}

// NamesForVenue materializes the genre names tagged on a venue. The join
// is explicit; nothing is loaded lazily. Order follows genre id so the
// result is stable, though membership itself is an unordered set.
func (r *GenreRepo) NamesForVenue(ctx context.Context, venueID int64) ([]string, error) {
	const q = `SELECT g.name FROM genres g
	           JOIN venue_genres vg ON vg.genre_id = g.id
	           WHERE vg.venue_id = ? ORDER BY g.id`
	return r.queryNames(ctx, q, venueID)
}

// NamesForArtist materializes the genre names tagged on an artist.
func (r *GenreRepo) NamesForArtist(ctx context.Context, artistID int64) ([]string, error) {
	const q = `SELECT g.name FROM genres g
	           JOIN artist_genres ag ON ag.genre_id = g.id
	           WHERE ag.artist_id = ? ORDER BY g.id`
	return r.queryNames(ctx, q, artistID)
}

func (r *GenreRepo) queryNames(ctx context.Context, q string, id int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
