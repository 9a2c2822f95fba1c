package writer

import (
	"encoding/json"
	"fmt"
	"os"

	"adscan/internal/models"
)

// jsonListing mirrors models.Listing with nullable fields so that absent
// values serialize as JSON null rather than empty strings.
type jsonListing struct {
	Title        *string `json:"title"`
	Price        *string `json:"price"`
	Location     *string `json:"location"`
	URL          *string `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func toJSONListing(l models.Listing) jsonListing {
	return jsonListing{
		Title:        nullable(l.Title),
		Price:        nullable(l.Price),
		Location:     nullable(l.Location),
		URL:          nullable(l.URL),
		ThumbnailURL: nullable(l.ThumbnailURL),
	}
}

func fromJSONListing(j jsonListing) models.Listing {
	return models.Listing{
		Title:        deref(j.Title),
		Price:        deref(j.Price),
		Location:     deref(j.Location),
		URL:          deref(j.URL),
		ThumbnailURL: deref(j.ThumbnailURL),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// writeJSON writes listings as an indented UTF-8 array of objects. Zero
// records produce a literal empty array, not null.
func writeJSON(path string, listings []models.Listing) error {
	out := make([]jsonListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, toJSONListing(l))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: json encode failed: %v", ErrIO, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// ReadJSON parses a file previously produced by the JSON writer. Used by
// tests and for ad-hoc inspection of past output; null fields come back as
// empty strings.
func ReadJSON(path string) ([]models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var raw []jsonListing
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: json decode failed: %v", ErrIO, err)
	}

	listings := make([]models.Listing, 0, len(raw))
	for _, j := range raw {
		listings = append(listings, fromJSONListing(j))
	}
	return listings, nil
}
