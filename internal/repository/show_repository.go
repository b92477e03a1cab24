// Package repository contains data access logic for Show operations. A Show
// links an Artist to a Venue at a date-time instant and is owned by neither
// endpoint; deleting an endpoint removes its dependent shows inside the
// endpoint's own delete transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Show represents a scheduled performance of an artist at a venue.
// NOTE: Date strings are stored in DB format "2006-01-02 15:04:05" (UTC).
type Show struct {
	ID       int64  `json:"id"`
	ArtistID int64  `json:"artist_id"`
	VenueID  int64  `json:"venue_id"`
	Date     string `json:"date"`
}

// ShowListRow is one row of the global shows index, joining both
// endpoints' summaries.
type ShowListRow struct {
	VenueID         int64  `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	ArtistID        int64  `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// ShowArtistView is a show as seen from a venue page: the performing
// artist's summary plus the start time.
type ShowArtistView struct {
	ArtistID        int64  `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// ShowVenueView is a show as seen from an artist page: the hosting
// venue's summary plus the start time.
type ShowVenueView struct {
	VenueID        int64  `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a new show after verifying that both endpoint references
// resolve. A missing artist or venue surfaces as the endpoint's not-found
// sentinel and nothing is written. On success the generated ID is
// assigned back to the show.
func (r *ShowRepo) Create(ctx context.Context, s *Show) (err error) {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM artists WHERE id = ?`, s.ArtistID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrArtistNotFound
		}
		return err
	}
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, s.VenueID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrVenueNotFound
		}
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO shows (artist_id, venue_id, date) VALUES (?, ?, ?)`,
		s.ArtistID, s.VenueID, s.Date)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// GetByID retrieves a show by its ID. It returns ErrShowNotFound if there
// is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id int64) (*Show, error) {
	const q = `SELECT id, artist_id, venue_id, date FROM shows WHERE id = ?`
	var s Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.ArtistID, &s.VenueID, &s.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns every show joined with both endpoint summaries, ordered
// by ascending show id.
func (r *ShowRepo) ListAll(ctx context.Context) ([]ShowListRow, error) {
	const q = `SELECT v.id, v.name, a.id, a.name, a.image_link, s.date
	           FROM shows s
	           JOIN artists a ON a.id = s.artist_id
	           JOIN venues v  ON v.id = s.venue_id
	           ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ShowListRow
	for rows.Next() {
		var row ShowListRow
		if err := rows.Scan(&row.VenueID, &row.VenueName, &row.ArtistID, &row.ArtistName, &row.ArtistImageLink, &row.StartTime); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ShowsForVenue joins every show at the venue with the performing artist's
// summary and splits the rows into past and upcoming buckets relative to
// the caller-supplied observation instant. A show starting exactly at now
// is upcoming, never past. Both buckets are ordered by ascending date.
// The clock is never read here so the classification stays deterministic.
func (r *ShowRepo) ShowsForVenue(ctx context.Context, venueID int64, now time.Time) (past, upcoming []ShowArtistView, err error) {
	const q = `SELECT a.id, a.name, a.image_link, s.date
	           FROM shows s
	           JOIN artists a ON a.id = s.artist_id
	           WHERE s.venue_id = ?
	           ORDER BY s.date ASC`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	nowStr := now.UTC().Format(timeFormat)
	past, upcoming = []ShowArtistView{}, []ShowArtistView{}
	for rows.Next() {
		var v ShowArtistView
		if err := rows.Scan(&v.ArtistID, &v.ArtistName, &v.ArtistImageLink, &v.StartTime); err != nil {
			return nil, nil, err
		}
		// Lexicographic comparison matches chronological order for the
		// fixed DATETIME layout.
		if v.StartTime < nowStr {
			past = append(past, v)
		} else {
			upcoming = append(upcoming, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return past, upcoming, nil
}

// ShowsForArtist is the mirror of ShowsForVenue: every show the artist is
// booked for, joined with the hosting venue's summary and bucketed around
// the observation instant.
func (r *ShowRepo) ShowsForArtist(ctx context.Context, artistID int64, now time.Time) (past, upcoming []ShowVenueView, err error) {
	const q = `SELECT v.id, v.name, v.image_link, s.date
	           FROM shows s
	           JOIN venues v ON v.id = s.venue_id
	           WHERE s.artist_id = ?
	           ORDER BY s.date ASC`
	rows, err := r.db.QueryContext(ctx, q, artistID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	nowStr := now.UTC().Format(timeFormat)
	past, upcoming = []ShowVenueView{}, []ShowVenueView{}
	for rows.Next() {
		var v ShowVenueView
		if err := rows.Scan(&v.VenueID, &v.VenueName, &v.VenueImageLink, &v.StartTime); err != nil {
			return nil, nil, err
		}
		if v.StartTime < nowStr {
			past = append(past, v)
		} else {
			upcoming = append(upcoming, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return past, upcoming, nil
}
