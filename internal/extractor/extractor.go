// Package extractor maps a rendered search-results document to listing
// records. Extraction is a pure transform over an HTML snapshot: no
// browser connection, no I/O, no retries.
package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"adscan/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// Extract parses htmlContent and returns one Listing per result container.
//
// Each field is attempted independently; a missing sub-field yields an
// empty value and the record is still emitted as long as it has a link or
// a title. Repeated containers (sponsored duplicates) are not deduplicated.
// Relative links are resolved against baseURL. When no container selector
// matches, the profile's anchor heuristic is tried; if that also matches
// nothing the result is an empty slice, not an error.
func Extract(htmlContent, baseURL string, p Profile) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var base *url.URL
	if baseURL != "" {
		if parsed, err := url.Parse(baseURL); err == nil {
			base = parsed
		}
	}

	var listings []models.Listing
	findContainers(doc, p).Each(func(_ int, s *goquery.Selection) {
		l := extractOne(s, p, base)
		if l.Usable() {
			listings = append(listings, l)
		}
	})

	return listings, nil
}

// findContainers tries the profile's container selectors in order, then
// falls back to the anchor heuristic: any link whose href contains one of
// the profile's hint substrings is treated as a result container.
func findContainers(doc *goquery.Document, p Profile) *goquery.Selection {
	for _, sel := range p.Container {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}

	return doc.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		return matchesHint(href, p.LinkHints)
	})
}

func matchesHint(href string, hints []string) bool {
	if href == "" {
		return false
	}
	for _, hint := range hints {
		if strings.Contains(href, hint) {
			return true
		}
	}
	return false
}

// extractOne reads the fields of a single container. Containers found by
// the anchor heuristic are themselves links, so the link comes from the
// container and the location is searched in the enclosing list element.
func extractOne(s *goquery.Selection, p Profile, base *url.URL) models.Listing {
	isAnchor := s.Is("a")

	title := firstText(s, p.Title)
	if title == "" && isAnchor {
		title = firstLine(s.Text())
	}

	price := firstText(s, p.Price)
	location := firstText(s, p.Location)
	if location == "" && isAnchor {
		if parent := s.Closest("li, div"); parent.Length() > 0 {
			location = firstText(parent, p.Location)
		}
	}

	var href string
	if isAnchor {
		href, _ = s.Attr("href")
	} else {
		href = firstAttr(s, p.Link, "href")
	}

	thumb := firstAttr(s, p.Thumbnail, "src", "data-src")

	return models.Listing{
		Title:        title,
		Price:        price,
		Location:     location,
		URL:          resolveRef(base, href),
		ThumbnailURL: resolveRef(base, thumb),
	}
}

// firstText returns the trimmed text of the first candidate selector that
// matches a non-empty element under s.
func firstText(s *goquery.Selection, candidates FieldSelectors) string {
	for _, sel := range candidates {
		if m := s.Find(sel).First(); m.Length() > 0 {
			if text := strings.TrimSpace(m.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstAttr returns the first non-empty attribute value among attrs on the
// first matching candidate selector under s.
func firstAttr(s *goquery.Selection, candidates FieldSelectors, attrs ...string) string {
	for _, sel := range candidates {
		m := s.Find(sel).First()
		if m.Length() == 0 {
			continue
		}
		for _, attr := range attrs {
			if v, ok := m.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// resolveRef resolves href against base. Absolute links pass through
// unchanged; without a base the raw value is returned.
func resolveRef(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
