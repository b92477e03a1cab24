package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarlsson/showtime/internal/queue"
	"github.com/mkarlsson/showtime/internal/repository"
	queue_publisher "github.com/mkarlsson/showtime/internal/service"
)

// ListShows returns the global shows index: every show joined with both
// endpoint summaries, ordered by id.
func (h *CatalogHandler) ListShows(c echo.Context) error {
	rows, err := h.Shows.ListAll(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	if rows == nil {
		rows = []repository.ShowListRow{}
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": rows, "count": len(rows)})
}

// CreateShow lists a new show. Both endpoint references must resolve; a
// dangling artist or venue id yields 404 and nothing is written. The start
// time is accepted in RFC 3339 and normalized to UTC. On success a
// show.listed event is published for downstream consumers; publish
// failures are logged and do not fail the request.
func (h *CatalogHandler) CreateShow(c echo.Context) error {
	ctx := c.Request().Context()
	var req struct {
		ArtistID  *int64  `json:"artist_id"`
		VenueID   *int64  `json:"venue_id"`
		StartTime *string `json:"start_time"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid json body"})
	}
	var missing []string
	if req.ArtistID == nil {
		missing = append(missing, "artist_id")
	}
	if req.VenueID == nil {
		missing = append(missing, "venue_id")
	}
	if req.StartTime == nil {
		missing = append(missing, "start_time")
	}
	if len(missing) > 0 {
		return missingFields(c, missing)
	}
	start, err := time.Parse(time.RFC3339, *req.StartTime)
	if err != nil {
		// Also accept the storage layout directly.
		start, err = time.Parse(dateLayout, *req.StartTime)
		if err != nil {
			return missingFields(c, []string{"start_time"})
		}
	}

	s := &repository.Show{
		ArtistID: *req.ArtistID,
		VenueID:  *req.VenueID,
		Date:     start.UTC().Format(dateLayout),
	}
	if err := h.Shows.Create(ctx, s); err != nil {
		return httpError(c, err)
	}

	artist, aErr := h.Artists.GetByID(ctx, s.ArtistID)
	venue, vErr := h.Venues.GetByID(ctx, s.VenueID)
	if aErr == nil && vErr == nil {
		_ = queue_publisher.PublishShowListed(ctx, queue.ShowListedEvent{
			ShowID:     s.ID,
			ArtistID:   artist.ID,
			ArtistName: artist.Name,
			VenueID:    venue.ID,
			VenueName:  venue.Name,
			StartTime:  s.Date,
			ListedAt:   time.Now().UTC().Format(dateLayout),
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"show": s})
}
