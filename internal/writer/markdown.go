package writer

import (
	"fmt"
	"os"
	"strings"

	"adscan/internal/models"
)

// writeMarkdown renders a human-readable report, one section per listing.
func writeMarkdown(path string, listings []models.Listing) error {
	var sb strings.Builder

	sb.WriteString("# Listings\n\n")
	sb.WriteString(fmt.Sprintf("%d results\n\n", len(listings)))

	for i, l := range listings {
		title := l.Title
		if title == "" {
			title = "(untitled)"
		}
		if l.URL != "" {
			sb.WriteString(fmt.Sprintf("## %d. [%s](%s)\n\n", i+1, title, l.URL))
		} else {
			sb.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, title))
		}
		if l.Price != "" {
			sb.WriteString(fmt.Sprintf("- Price: %s\n", l.Price))
		}
		if l.Location != "" {
			sb.WriteString(fmt.Sprintf("- Location: %s\n", l.Location))
		}
		if l.ThumbnailURL != "" {
			sb.WriteString(fmt.Sprintf("- Thumbnail: %s\n", l.ThumbnailURL))
		}
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
