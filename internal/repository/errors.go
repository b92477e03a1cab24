// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. Each
// repository additionally defines its own not-found sentinel (for
// example ErrVenueNotFound) so callers can report which entity was
// missing.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTag is returned when a genre or category id does not resolve
// to an entry in the reference vocabulary. Handlers should translate
// this into an HTTP 422 response.
var ErrUnknownTag = errors.New("unknown tag")

// ErrUnprocessable is returned when a well-formed request fails during
// execution, for example when a transaction cannot complete. Handlers
// should translate this into an HTTP 422 response.
var ErrUnprocessable = errors.New("unprocessable")

// ValidationError reports a record that is missing required fields. It
// carries every offending field, not just the first one found, so the
// caller can surface the full list in one response.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// timeFormat is the DATETIME layout used for all show dates, both in the
// database and in API payloads. Lexicographic comparison of two values in
// this layout matches chronological comparison, which the temporal
// bucketing in the show repository relies on.
const timeFormat = "2006-01-02 15:04:05"
