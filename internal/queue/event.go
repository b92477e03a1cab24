// Package queue defines the event payloads published to RabbitMQ when the
// catalog changes in ways downstream consumers care about.
package queue

// ShowListedEvent is emitted when a new show is put on sale.
type ShowListedEvent struct {
	ShowID     int64  `json:"show_id"`
	ArtistID   int64  `json:"artist_id"`
	ArtistName string `json:"artist_name"`
	VenueID    int64  `json:"venue_id"`
	VenueName  string `json:"venue_name"`
	StartTime  string `json:"start_time"`
	ListedAt   string `json:"listed_at"`
}

// CatalogRemovedEvent is emitted when a venue, artist or question is
// deleted. Kind distinguishes the entity type.
type CatalogRemovedEvent struct {
	Kind      string `json:"kind"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	RemovedAt string `json:"removed_at"`
}
