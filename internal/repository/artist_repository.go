// Package repository contains data access logic for Artist operations. An
// Artist is the performing endpoint of a Show and, like a Venue, carries an
// unordered genre tag set through its own join table. A non-empty Status
// note doubles as the "seeking venue" flag.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Artist represents an artist entity persisted in the database.
type Artist struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Phone        string `json:"phone"`
	ImageLink    string `json:"image_link"`
	FacebookLink string `json:"facebook_link"`
	WebsiteLink  string `json:"website_link"`
	Status       string `json:"status"`
}

// ErrArtistNotFound is returned when an artist cannot be found in the DB.
var ErrArtistNotFound = errors.New("artist not found")

// ArtistRepo encapsulates all database queries related to artists.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the provided DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

func validateArtist(a *Artist) error {
	var missing []string
	if strings.TrimSpace(a.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Create inserts a new artist together with its genre tags as a single
// transaction. Unresolved genre ids roll the whole insert back with
// ErrUnknownTag. On success the artist's ID field is populated.
func (r *ArtistRepo) Create(ctx context.Context, a *Artist, genreIDs []int64) (err error) {
	if err := validateArtist(a); err != nil {
		return err
	}
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
	const qInsert = `INSERT INTO artists (name, city, state, phone, image_link, facebook_link, website_link, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		a.Name, a.City, a.State, a.Phone, a.ImageLink, a.FacebookLink, a.WebsiteLink, a.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	err = replaceLinks(ctx, tx, "artist_genres", "artist_id", a.ID, genreIDs)
	return err
}

// GetByID fetches an artist by its ID. It returns ErrArtistNotFound if no
// row is found.
func (r *ArtistRepo) GetByID(ctx context.Context, id int64) (*Artist, error) {
	const q = `SELECT id, name, city, state, phone, image_link, facebook_link, website_link, status
	           FROM artists WHERE id = ?`
	var a Artist
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &a.ImageLink, &a.FacebookLink, &a.WebsiteLink, &a.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Update replaces every field of the artist record and re-tags its genre
// set in the same transaction. Returns ErrArtistNotFound when the id does
// not exist.
func (r *ArtistRepo) Update(ctx context.Context, a *Artist, genreIDs []int64) (err error) {
	if err := validateArtist(a); err != nil {
		return err
	}
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM artists WHERE id = ?`, a.ID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrArtistNotFound
		}
		return err
	}
	const q = `UPDATE artists
	           SET name = ?, city = ?, state = ?, phone = ?, image_link = ?, facebook_link = ?, website_link = ?, status = ?
	           WHERE id = ?`
	if _, err = tx.ExecContext(ctx, q,
		a.Name, a.City, a.State, a.Phone, a.ImageLink, a.FacebookLink, a.WebsiteLink, a.Status, a.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM artist_genres WHERE artist_id = ?`, a.ID); err != nil {
		return err
	}
	err = replaceLinks(ctx, tx, "artist_genres", "artist_id", a.ID, genreIDs)
	return err
}

// Delete removes an artist, every show they are booked for and all of
// their genre links as a single transaction. Returns ErrArtistNotFound
// when the id does not exist.
func (r *ArtistRepo) Delete(ctx context.Context, id int64) (err error) {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM artists WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrArtistNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM shows WHERE artist_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM artist_genres WHERE artist_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	return err
}

// ListAll returns every artist ordered by ascending id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]*Artist, error) {
	const q = `SELECT id, name, city, state, phone, image_link, facebook_link, website_link, status
	           FROM artists ORDER BY id`
	return r.queryArtists(ctx, q)
}

// SearchByName returns every artist whose name contains the term in any
// letter case, ordered by ascending id.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string) ([]*Artist, error) {
	const q = `SELECT id, name, city, state, phone, image_link, facebook_link, website_link, status
	           FROM artists WHERE LOWER(name) LIKE ? ORDER BY id`
	return r.queryArtists(ctx, q, "%"+strings.ToLower(term)+"%")
}

func (r *ArtistRepo) queryArtists(ctx context.Context, q string, args ...any) ([]*Artist, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Artist
	for rows.Next() {
		a := new(Artist)
		if err := rows.Scan(
			&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &a.ImageLink, &a.FacebookLink, &a.WebsiteLink, &a.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
