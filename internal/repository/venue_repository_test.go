package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVenueValidationEnumeratesMissingFields(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)

	err := r.Create(context.Background(), &Venue{}, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, []string{"name", "city", "state"}, ve.Fields)
	require.Zero(t, countRows(t, db, "venues"))
}

func TestVenueCRUD(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)
	ctx := context.Background()
	jazz := seedGenre(t, db, "Jazz")
	rock := seedGenre(t, db, "Rock")

	v := &Venue{Name: "The Dueling Pianos Bar", City: "New York", State: "NY", Phone: "914-003-1132"}
	require.NoError(t, r.Create(ctx, v, []int64{jazz, rock}))
	require.NotZero(t, v.ID)

	got, err := r.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "The Dueling Pianos Bar", got.Name)
	require.Equal(t, 2, countRows(t, db, "venue_genres"))

	got.Status = "seeking a local artist"
	require.NoError(t, r.Update(ctx, got, []int64{jazz}))
	got, err = r.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "seeking a local artist", got.Status)
	require.Equal(t, 1, countRows(t, db, "venue_genres"))

	require.NoError(t, r.Delete(ctx, v.ID))
	_, err = r.GetByID(ctx, v.ID)
	require.ErrorIs(t, err, ErrVenueNotFound)
}

func TestVenueUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)

	err := r.Update(context.Background(), &Venue{ID: 99, Name: "x", City: "y", State: "z"}, nil)
	require.ErrorIs(t, err, ErrVenueNotFound)
}

func TestVenueCreateUnknownGenreRollsBack(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)

	v := &Venue{Name: "Park Square Live", City: "San Francisco", State: "CA"}
	err := r.Create(context.Background(), v, []int64{123})
	require.ErrorIs(t, err, ErrUnknownTag)
	require.Zero(t, countRows(t, db, "venues"))
	require.Zero(t, countRows(t, db, "venue_genres"))
}

func TestVenueDeleteCascadesShowsAndTags(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)
	ctx := context.Background()

	jazz := seedGenre(t, db, "Jazz")
	venueID := seedVenue(t, db, "The Musical Hop", "San Francisco", "CA")
	require.NoError(t, NewGenreRepo(db).TagVenue(ctx, venueID, jazz))
	artistID := seedArtist(t, db, "Guns N Petals", "San Francisco", "CA")
	show := &Show{ArtistID: artistID, VenueID: venueID, Date: "2026-06-15 20:00:00"}
	require.NoError(t, NewShowRepo(db).Create(ctx, show))

	require.NoError(t, r.Delete(ctx, venueID))

	require.Zero(t, countRows(t, db, "shows"))
	require.Zero(t, countRows(t, db, "venue_genres"))
	// The artist survives; only the venue's dependents go with it.
	require.Equal(t, 1, countRows(t, db, "artists"))
}

func TestVenueDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	require.ErrorIs(t, NewVenueRepo(db).Delete(context.Background(), 42), ErrVenueNotFound)
}

func TestVenueSearchCaseInsensitiveSubstring(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)
	ctx := context.Background()

	seedVenue(t, db, "Africa House", "New York", "NY")
	seedVenue(t, db, "Club AFRICANA", "Chicago", "IL")
	seedVenue(t, db, "The Musical Hop", "San Francisco", "CA")

	matches, err := r.SearchByName(ctx, "africa")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	matches, err = r.SearchByName(ctx, "AfRiCa")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	matches, err = r.SearchByName(ctx, "nothing here")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestVenueListAllOrdered(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)

	a := seedVenue(t, db, "B Venue", "New York", "NY")
	b := seedVenue(t, db, "A Venue", "New York", "NY")

	all, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, a, all[0].ID)
	require.Equal(t, b, all[1].ID)
}

func TestVenueDuplicateGenreIDsCollapse(t *testing.T) {
	db := newTestDB(t)
	r := NewVenueRepo(db)
	jazz := seedGenre(t, db, "Jazz")

	v := &Venue{Name: "The Musical Hop", City: "San Francisco", State: "CA"}
	require.NoError(t, r.Create(context.Background(), v, []int64{jazz, jazz, jazz}))
	require.Equal(t, 1, countRows(t, db, "venue_genres"))
}
