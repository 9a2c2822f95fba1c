// Package models defines the records produced by a scrape run.
package models

// Listing is one extracted search-result record. Every field except URL may
// be empty: partial records are expected data quality, not errors. A Listing
// is created once during extraction and never mutated afterwards.
type Listing struct {
	Title        string `json:"title"`
	Price        string `json:"price"`
	Location     string `json:"location"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Usable reports whether the listing carries enough data to be worth
// emitting. A container that yields neither a link nor a title is dropped.
func (l Listing) Usable() bool {
	return l.URL != "" || l.Title != ""
}
