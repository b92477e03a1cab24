package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListGenres returns the full genre vocabulary ordered by id.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"genres": genres})
}

// TagVenue adds one genre membership to a venue. Tagging a pair twice is
// idempotent and still answers 200.
func (h *CatalogHandler) TagVenue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	var req struct {
		GenreID *int64 `json:"genre_id"`
	}
	if err := c.Bind(&req); err != nil || req.GenreID == nil {
		return missingFields(c, []string{"genre_id"})
	}
	if _, err := h.Venues.GetByID(ctx, id); err != nil {
		return httpError(c, err)
	}
	if err := h.Genres.TagVenue(ctx, id, *req.GenreID); err != nil {
		return httpError(c, err)
	}
	names, err := h.Genres.NamesForVenue(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"venue_id": id, "genres": names})
}

// UntagVenue clears every genre membership of a venue.
func (h *CatalogHandler) UntagVenue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	if _, err := h.Venues.GetByID(ctx, id); err != nil {
		return httpError(c, err)
	}
	if err := h.Genres.UntagAllVenue(ctx, id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TagArtist adds one genre membership to an artist with the same
// idempotency rules as TagVenue.
func (h *CatalogHandler) TagArtist(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	var req struct {
		GenreID *int64 `json:"genre_id"`
	}
	if err := c.Bind(&req); err != nil || req.GenreID == nil {
		return missingFields(c, []string{"genre_id"})
	}
	if _, err := h.Artists.GetByID(ctx, id); err != nil {
		return httpError(c, err)
	}
	if err := h.Genres.TagArtist(ctx, id, *req.GenreID); err != nil {
		return httpError(c, err)
	}
	names, err := h.Genres.NamesForArtist(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"artist_id": id, "genres": names})
}

// UntagArtist clears every genre membership of an artist.
func (h *CatalogHandler) UntagArtist(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	if _, err := h.Artists.GetByID(ctx, id); err != nil {
		return httpError(c, err)
	}
	if err := h.Genres.UntagAllArtist(ctx, id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
