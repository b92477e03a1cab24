// Package handler exposes HTTP handlers for the booking catalog, the quiz
// bank and authentication. Handlers translate repository sentinel errors
// into a stable error vocabulary: every failure response carries an
// "error" reason string plus a human-readable "message", and validation
// failures additionally enumerate the offending fields.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarlsson/showtime/internal/repository"
)

// dateLayout is the DATETIME layout used in API payloads for show start
// times. It matches the storage format, so values compare lexicographically
// in chronological order.
const dateLayout = "2006-01-02 15:04:05"

// CatalogHandler aggregates the repositories behind the events-booking
// side of the API: venues, artists, the genre vocabulary and shows.
type CatalogHandler struct {
	Venues  *repository.VenueRepo
	Artists *repository.ArtistRepo
	Genres  *repository.GenreRepo
	Shows   *repository.ShowRepo
}

// QuizHandler aggregates the repositories behind the quiz bank side of
// the API: questions and the category vocabulary.
type QuizHandler struct {
	Questions  *repository.QuestionRepo
	Categories *repository.CategoryRepo
}

// pathID parses the ":id" path parameter.
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// pageParam reads the "page" query parameter, defaulting to 1 when absent
// or unparseable. Out-of-range values are left to the pagination layer.
func pageParam(c echo.Context) int {
	p, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return p
}

// getUserID extracts the authenticated user id injected by the JWT
// middleware. The sub claim round-trips through JSON, so it arrives as a
// float64.
func getUserID(c echo.Context) (int64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// httpError maps repository errors onto the response vocabulary. Missing
// entities become 404 not_found, vocabulary violations become 422
// unknown_tag, validation failures become 400 bad_request with the field
// list, and anything else is reported as 422 unprocessable.
func httpError(c echo.Context, err error) error {
	var ve *repository.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "bad_request",
			"message": ve.Error(),
			"fields":  ve.Fields,
		})
	}
	switch {
	case errors.Is(err, repository.ErrVenueNotFound),
		errors.Is(err, repository.ErrArtistNotFound),
		errors.Is(err, repository.ErrShowNotFound),
		errors.Is(err, repository.ErrQuestionNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, repository.ErrUnknownTag):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown_tag", "message": err.Error()})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "message": err.Error()})
	default:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unprocessable", "message": "request could not be processed"})
	}
}

// missingFields reports a 400 response enumerating absent request fields.
func missingFields(c echo.Context, fields []string) error {
	ve := &repository.ValidationError{Fields: fields}
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":   "bad_request",
		"message": ve.Error(),
		"fields":  fields,
	})
}

// upcomingCounts tallies future shows per venue and per artist in one pass
// over the shows index, relative to now.
func (h *CatalogHandler) upcomingCounts(c echo.Context, now time.Time) (byVenue, byArtist map[int64]int, err error) {
	rows, err := h.Shows.ListAll(c.Request().Context())
	if err != nil {
		return nil, nil, err
	}
	nowStr := now.UTC().Format(dateLayout)
	byVenue, byArtist = map[int64]int{}, map[int64]int{}
	for _, row := range rows {
		if row.StartTime >= nowStr {
			byVenue[row.VenueID]++
			byArtist[row.ArtistID]++
		}
	}
	return byVenue, byArtist, nil
}
