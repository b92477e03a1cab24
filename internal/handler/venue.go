package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarlsson/showtime/internal/pagination"
	"github.com/mkarlsson/showtime/internal/queue"
	"github.com/mkarlsson/showtime/internal/repository"
	queue_publisher "github.com/mkarlsson/showtime/internal/service"
)

// venueSummary is the shape of a venue inside grouped listings and search
// results.
type venueSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// venueGroup is one city/state bucket of the grouped venues index.
type venueGroup struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []venueSummary `json:"venues"`
}

// venuePayload is the request body for creating or updating a venue.
type venuePayload struct {
	Name         string  `json:"name"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	ImageLink    string  `json:"image_link"`
	FacebookLink string  `json:"facebook_link"`
	WebsiteLink  string  `json:"website_link"`
	Status       string  `json:"status"`
	Genres       []int64 `json:"genres"`
}

func (p *venuePayload) toVenue(id int64) *repository.Venue {
	return &repository.Venue{
		ID:           id,
		Name:         p.Name,
		City:         p.City,
		State:        p.State,
		Address:      p.Address,
		Phone:        p.Phone,
		ImageLink:    p.ImageLink,
		FacebookLink: p.FacebookLink,
		WebsiteLink:  p.WebsiteLink,
		Status:       p.Status,
	}
}

// ListVenues returns every venue grouped by (city, state). Groups are
// sorted by city then state and venues within a group by id, so the same
// catalog always renders the same way.
func (h *CatalogHandler) ListVenues(c echo.Context) error {
	ctx := c.Request().Context()
	venues, err := h.Venues.ListAll(ctx)
	if err != nil {
		return httpError(c, err)
	}
	byVenue, _, err := h.upcomingCounts(c, time.Now())
	if err != nil {
		return httpError(c, err)
	}

	type key struct{ city, state string }
	grouped := map[key][]venueSummary{}
	for _, v := range venues {
		k := key{v.City, v.State}
		grouped[k] = append(grouped[k], venueSummary{ID: v.ID, Name: v.Name, NumUpcomingShows: byVenue[v.ID]})
	}
	out := make([]venueGroup, 0, len(grouped))
	for k, vs := range grouped {
		out = append(out, venueGroup{City: k.city, State: k.state, Venues: vs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].State < out[j].State
	})
	return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

// GetVenue returns the full venue page: the record, its genre names and
// its shows bucketed into past and upcoming around the current instant.
func (h *CatalogHandler) GetVenue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	genres, err := h.Genres.NamesForVenue(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	past, upcoming, err := h.Shows.ShowsForVenue(ctx, id, time.Now())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                   v.ID,
		"name":                 v.Name,
		"city":                 v.City,
		"state":                v.State,
		"address":              v.Address,
		"phone":                v.Phone,
		"image_link":           v.ImageLink,
		"facebook_link":        v.FacebookLink,
		"website_link":         v.WebsiteLink,
		"status":               v.Status,
		"genres":               genres,
		"past_shows":           past,
		"upcoming_shows":       upcoming,
		"past_shows_count":     len(past),
		"upcoming_shows_count": len(upcoming),
	})
}

// CreateVenue inserts a new venue with its genre tags.
func (h *CatalogHandler) CreateVenue(c echo.Context) error {
	ctx := c.Request().Context()
	var p venuePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	v := p.toVenue(0)
	if err := h.Venues.Create(ctx, v, p.Genres); err != nil {
		return httpError(c, err)
	}
	genres, err := h.Genres.NamesForVenue(ctx, v.ID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"venue": v, "genres": genres})
}

// UpdateVenue replaces every field of an existing venue, including its
// genre set. Partial patches are not supported.
func (h *CatalogHandler) UpdateVenue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	var p venuePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	v := p.toVenue(id)
	if err := h.Venues.Update(ctx, v, p.Genres); err != nil {
		return httpError(c, err)
	}
	genres, err := h.Genres.NamesForVenue(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"venue": v, "genres": genres})
}

// DeleteVenue removes a venue along with its shows and tag memberships,
// then notifies downstream consumers. Publish failures are logged by the
// publisher and do not fail the request; the deletion has already
// committed.
func (h *CatalogHandler) DeleteVenue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c)
	if err != nil {
		return missingFields(c, []string{"id"})
	}
	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	if err := h.Venues.Delete(ctx, id); err != nil {
		return httpError(c, err)
	}
	_ = queue_publisher.PublishCatalogRemoved(ctx, queue.CatalogRemovedEvent{
		Kind:      "venue",
		ID:        v.ID,
		Name:      v.Name,
		RemovedAt: time.Now().UTC().Format(dateLayout),
	})
	return c.NoContent(http.StatusNoContent)
}

// SearchVenues performs a case-insensitive substring search over venue
// names. The response reports the total match count alongside one page of
// matches.
func (h *CatalogHandler) SearchVenues(c echo.Context) error {
	ctx := c.Request().Context()
	term := c.QueryParam("search_term")
	if term == "" {
		return missingFields(c, []string{"search_term"})
	}
	matches, err := h.Venues.SearchByName(ctx, term)
	if err != nil {
		return httpError(c, err)
	}
	byVenue, _, err := h.upcomingCounts(c, time.Now())
	if err != nil {
		return httpError(c, err)
	}
	page := pagination.Paginate(matches, pageParam(c))
	data := make([]venueSummary, 0, len(page))
	for _, v := range page {
		data = append(data, venueSummary{ID: v.ID, Name: v.Name, NumUpcomingShows: byVenue[v.ID]})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(matches), "data": data})
}
