// Package pagination implements deterministic windowed retrieval over a
// fully materialized, ordered result set. The datasets in this system are
// small, so callers fetch the complete ordered slice from the store and
// cut one page out of it here; determinism then follows from the SQL
// ORDER BY, never from map iteration order.
package pagination

// PageSize is the fixed window size for every paginated listing.
const PageSize = 10

// Paginate returns the sub-sequence [(page-1)*PageSize, page*PageSize) of
// items, clipped to the slice bounds. A page below 1 is treated as page 1
// and a page past the end yields an empty slice; neither is an error.
func Paginate[T any](items []T, page int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
