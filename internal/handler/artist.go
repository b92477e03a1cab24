package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarlsson/showtime/internal/pagination"
	"github.com/mkarlsson/showtime/internal/queue"
	"github.com/mkarlsson/showtime/internal/repository"
	queue_publisher "github.com/mkarlsson/showtime/internal/service"
)

// artistSummary is the shape of an artist inside listings and search
// results.
type artistSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// artistPayload is the request body for creating or updating an artist.
type artistPayload struct {
	Name         string  `json:"name"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Phone        string  `json:"phone"`
	ImageLink    string  `json:"image_link"`
	FacebookLink string  `json:"facebook_link"`
	WebsiteLink  string  `json:"website_link"`
	Status       string  `json:"status"`
	Genres       []int64 `json:"genres"`
}

func (p *artistPayload) toArtist(id int64) *repository.Artist {
	return &repository.Artist{
		ID:           id,
		Name:         p.Name,
		City:         p.City,
		State:        p.State,
		Phone:        p.Phone,
		ImageLink:    p.ImageLink,
		FacebookLink: p.FacebookLink,
		WebsiteLink:  p.WebsiteLink,
		Status:       p.Status,
	}
}

// ListArtists returns a flat roster of every artist ordered by id.
func (h *CatalogHandler) ListArtists(c echo.Context) error {
	ctx := c.Request().Context()
	artists, err := h.Artists.ListAll(ctx)
	if err != nil {
		return httpError(c, err)
	}
	out := make([]echo.Map, 0, len(artists))
	for _, a := range artists {
		out = append(out, echo.Map{"id": a.ID, "name": a.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"artists": out})
}

// GetArtist returns the full artist page: the record, its genre names and
// its bookings bucketed into past and upcoming around the current instant.
func (h *CatalogHandler) GetArtist(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	genres, err := h.Genres.NamesForArtist(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	past, upcoming, err := h.Shows.ShowsForArtist(ctx, id, time.Now())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                   a.ID,
		"name":                 a.Name,
		"city":                 a.City,
		"state":                a.State,
		"phone":                a.Phone,
		"image_link":           a.ImageLink,
		"facebook_link":        a.FacebookLink,
		"website_link":         a.WebsiteLink,
		"status":               a.Status,
		"genres":               genres,
		"past_shows":           past,
		"upcoming_shows":       upcoming,
		"past_shows_count":     len(past),
		"upcoming_shows_count": len(upcoming),
	})
}

// CreateArtist inserts a new artist with its genre tags.
func (h *CatalogHandler) CreateArtist(c echo.Context) error {
	ctx := c.Request().Context()
	var p artistPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	a := p.toArtist(0)
	if err := h.Artists.Create(ctx, a, p.Genres); err != nil {
		return httpError(c, err)
	}
	genres, err := h.Genres.NamesForArtist(ctx, a.ID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"artist": a, "genres": genres})
}

// UpdateArtist replaces every field of an existing artist, including its
// genre set.
func (h *CatalogHandler) UpdateArtist(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	var p artistPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	a := p.toArtist(id)
	if err := h.Artists.Update(ctx, a, p.Genres); err != nil {
		return httpError(c, err)
	}
	genres, err := h.Genres.NamesForArtist(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"artist": a, "genres": genres})
}

// DeleteArtist removes an artist along with its bookings and tag
// memberships, then notifies downstream consumers.
func (h *CatalogHandler) DeleteArtist(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	a, err := h.Artists.GetByID(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	if err := h.Artists.Delete(ctx, id); err != nil {
		return httpError(c, err)
	}
	_ = queue_publisher.PublishCatalogRemoved(ctx, queue.CatalogRemovedEvent{
		Kind:      "artist",
		ID:        a.ID,
		Name:      a.Name,
		RemovedAt: time.Now().UTC().Format(dateLayout),
	})
	return c.NoContent(http.StatusNoContent)
}

// SearchArtists performs a case-insensitive substring search over artist
// names, reporting the total match count alongside one page of matches.
func (h *CatalogHandler) SearchArtists(c echo.Context) error {
	ctx := c.Request().Context()
	term := c.QueryParam("search_term")
	if term == "" {
		return missingFields(c, []string{"search_term"})
	}
	matches, err := h.Artists.SearchByName(ctx, term)
	if err != nil {
		return httpError(c, err)
	}
	_, byArtist, err := h.upcomingCounts(c, time.Now())
	if err != nil {
		return httpError(c, err)
	}
	page := pagination.Paginate(matches, pageParam(c))
	data := make([]artistSummary, 0, len(page))
	for _, a := range page {
		data = append(data, artistSummary{ID: a.ID, Name: a.Name, NumUpcomingShows: byArtist[a.ID]})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(matches), "data": data})
}
