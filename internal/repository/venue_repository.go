// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Venue model and repository methods for CRUD, search
// and deletion. A Venue is one endpoint of a Show; the other endpoint is an
// Artist. Venues carry an unordered set of genre tags through the
// venue_genres join table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Venue represents a venue entity persisted in the database. Optional text
// fields are stored as empty strings when absent. A non-empty Status note
// doubles as the "seeking talent" flag.
type Venue struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	ImageLink    string `json:"image_link"`
	FacebookLink string `json:"facebook_link"`
	WebsiteLink  string `json:"website_link"`
	Status       string `json:"status"`
}

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo encapsulates all database queries related to venues. It
// depends on a sql.DB connection which should be configured elsewhere.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// validateVenue collects every missing required field of the record.
func validateVenue(v *Venue) error {
	var missing []string
	if strings.TrimSpace(v.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(v.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(v.State) == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Create inserts a new venue together with its genre tags as a single
// transaction. Every genre id must resolve to the genres vocabulary or the
// whole insert is rolled back with ErrUnknownTag. On success the venue's
// ID field is populated with the auto-generated value.
func (r *VenueRepo) Create(ctx context.Context, v *Venue, genreIDs []int64) (err error) {
	if err := validateVenue(v); err != nil {
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
	const qInsert = `INSERT INTO venues (name, city, state, address, phone, image_link, facebook_link, website_link, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink, v.FacebookLink, v.WebsiteLink, v.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	err = replaceLinks(ctx, tx, "venue_genres", "venue_id", v.ID, genreIDs)
	return err
}

// GetByID fetches a venue by its ID. It returns ErrVenueNotFound if no
// row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*Venue, error) {
	const q = `SELECT id, name, city, state, address, phone, image_link, facebook_link, website_link, status
	           FROM venues WHERE id = ?`
	var v Venue
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.ImageLink, &v.FacebookLink, &v.WebsiteLink, &v.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Update replaces every field of the venue record and re-tags its genre
// set in the same transaction. Partial patches are not supported; the
// caller must send the full record. Returns ErrVenueNotFound when the id
// does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *Venue, genreIDs []int64) (err error) {
	if err := validateVenue(v); err != nil {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, v.ID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrVenueNotFound
		}
		return err
	}
	const q = `UPDATE venues
	           SET name = ?, city = ?, state = ?, address = ?, phone = ?, image_link = ?, facebook_link = ?, website_link = ?, status = ?
	           WHERE id = ?`
	if _, err = tx.ExecContext(ctx, q,
		v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink, v.FacebookLink, v.WebsiteLink, v.Status, v.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM venue_genres WHERE venue_id = ?`, v.ID); err != nil {
		return err
	}
	err = replaceLinks(ctx, tx, "venue_genres", "venue_id", v.ID, genreIDs)
	return err
}

// Delete removes a venue, every show scheduled at it and all of its genre
// links as a single transaction, so no dangling show rows or tag
// memberships survive the entity. Returns ErrVenueNotFound when the id
// does not exist.
func (r *VenueRepo) Delete(ctx context.Context, id int64) (err error) {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrVenueNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM venue_genres WHERE venue_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	return err
}

// ListAll returns every venue ordered by ascending id. The dataset is
// small enough to materialize fully per call, which keeps pagination and
// grouping in the callers deterministic.
func (r *VenueRepo) ListAll(ctx context.Context) ([]*Venue, error) {
	const q = `SELECT id, name, city, state, address, phone, image_link, facebook_link, website_link, status
	           FROM venues ORDER BY id`
	return r.queryVenues(ctx, q)
}

// SearchByName returns every venue whose name contains the term in any
// letter case, ordered by ascending id. The full match set is returned so
// the caller can report the true total independent of the page served.
func (r *VenueRepo) SearchByName(ctx context.Context, term string) ([]*Venue, error) {
	const q = `SELECT id, name, city, state, address, phone, image_link, facebook_link, website_link, status
	           FROM venues WHERE LOWER(name) LIKE ? ORDER BY id`
	return r.queryVenues(ctx, q, "%"+strings.ToLower(term)+"%")
}

func (r *VenueRepo) queryVenues(ctx context.Context, q string, args ...any) ([]*Venue, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Venue
	for rows.Next() {
		v := new(Venue)
		if err := rows.Scan(
			&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.ImageLink, &v.FacebookLink, &v.WebsiteLink, &v.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// replaceLinks inserts one join row per tag id after verifying each id
// against the genres vocabulary. Duplicate ids in the input collapse to a
// single membership. The table and column names are compile-time constants
// supplied by the venue and artist repositories, never caller input.
func replaceLinks(ctx context.Context, tx *sql.Tx, table, column string, entityID int64, genreIDs []int64) error {
	seen := make(map[int64]bool, len(genreIDs))
	for _, gid := range genreIDs {
		if seen[gid] {
			continue
		}
		seen[gid] = true
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM genres WHERE id = ?`, gid).Scan(&one)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUnknownTag
			}
			return err
		}
		q := `INSERT INTO ` + table + ` (` + column + `, genre_id) VALUES (?, ?)`
		if _, err := tx.ExecContext(ctx, q, entityID, gid); err != nil {
			return err
		}
	}
	return nil
}
