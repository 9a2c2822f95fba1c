// Package writer serializes listing records to the output file. The
// destination is always truncated: one run produces one file, there is no
// append mode and no state carried between runs.
package writer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"adscan/internal/models"
)

// Sentinel errors for the serialization stage.
var (
	// ErrConfig marks an unrecognized output format or extension.
	ErrConfig = errors.New("config error")
	// ErrIO marks an unwritable output path.
	ErrIO = errors.New("output error")
)

// Format is a supported output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatSQLite   Format = "sqlite"
)

// ParseFormat maps an explicit --format value to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, json, markdown or sqlite)", ErrConfig, name)
	}
}

// DetectFormat picks the output format from the file extension of path.
// An unrecognized or missing extension is a configuration error, not a
// silent default.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: cannot infer output format from %q (want .csv, .json, .md or .db)", ErrConfig, path)
	}
}

// Write serializes listings to path in the given format, overwriting any
// existing file. A zero-length listings slice still produces a valid file:
// header-only CSV, an empty JSON array, an empty table.
func Write(path string, format Format, listings []models.Listing) error {
	switch format {
	case FormatCSV:
		return writeCSV(path, listings)
	case FormatJSON:
		return writeJSON(path, listings)
	case FormatMarkdown:
		return writeMarkdown(path, listings)
	case FormatSQLite:
		return writeSQLite(path, listings)
	default:
		return fmt.Errorf("%w: unknown format %q", ErrConfig, format)
	}
}
