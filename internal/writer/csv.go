package writer

import (
	"encoding/csv"
	"fmt"
	"os"

	"adscan/internal/models"
)

// csvHeader is the fixed column set. Thumbnail is always present as the
// last column so the header is stable across runs.
var csvHeader = []string{"title", "price", "location", "url", "thumbnail_url"}

// writeCSV writes one header row plus one row per listing. encoding/csv
// handles quoting of embedded commas, quotes and newlines; output is UTF-8.
func writeCSV(path string, listings []models.Listing) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	w.Write(csvHeader)
	for _, l := range listings {
		w.Write([]string{l.Title, l.Price, l.Location, l.URL, l.ThumbnailURL})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: csv write failed: %v", ErrIO, err)
	}
	return nil
}
