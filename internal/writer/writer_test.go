package writer

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adscan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListings() []models.Listing {
	return []models.Listing{
		{
			Title:        "Waterproof Car Cover, XL",
			Price:        "₹ 1,299",
			Location:     "Andheri West, Mumbai",
			URL:          "https://www.olx.in/item/1001",
			ThumbnailURL: "https://www.olx.in/images/1001.webp",
		},
		{
			Title: "Silver matty cover",
			URL:   "https://www.olx.in/item/1002",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: "JSON", want: FormatJSON},
		{in: "md", want: FormatMarkdown},
		{in: "markdown", want: FormatMarkdown},
		{in: "sqlite", want: FormatSQLite},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "results.csv", want: FormatCSV},
		{path: "out/results.JSON", want: FormatJSON},
		{path: "report.md", want: FormatMarkdown},
		{path: "listings.db", want: FormatSQLite},
		{path: "listings.sqlite3", want: FormatSQLite},
		{path: "results.xlsx", wantErr: true},
		{path: "results", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCSVEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	nasty := models.Listing{
		Title: `Cover, "heavy duty"` + "\nfits SUVs",
		Price: "₹ 2,500",
		URL:   "https://www.olx.in/item/42",
	}
	require.NoError(t, Write(path, FormatCSV, []models.Listing{nasty}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])

	// Re-parsing recovers the embedded comma, quote and newline exactly.
	assert.Equal(t, nasty.Title, rows[1][0])
	assert.Equal(t, nasty.Price, rows[1][1])
	assert.Equal(t, nasty.URL, rows[1][3])
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, Write(path, FormatCSV, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(csvHeader, ",")+"\n", string(data))
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(path, FormatCSV, sampleListings()))
	require.NoError(t, Write(path, FormatCSV, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(csvHeader, ",")+"\n", string(data))
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	in := sampleListings()

	require.NoError(t, Write(path, FormatJSON, in))

	// Absent fields must be literal nulls, not empty strings.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price": null`)
	assert.Contains(t, string(raw), `"location": null`)

	out, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Write(path, FormatJSON, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, Write(path, FormatMarkdown, sampleListings()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "# Listings")
	assert.Contains(t, text, "2 results")
	assert.Contains(t, text, "[Waterproof Car Cover, XL](https://www.olx.in/item/1001)")
	assert.Contains(t, text, "- Price: ₹ 1,299")
	assert.NotContains(t, text, "- Location: \n")
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.db")
	require.NoError(t, Write(path, FormatSQLite, sampleListings()))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&count))
	assert.Equal(t, 2, count)

	var title string
	var price sql.NullString
	require.NoError(t, db.QueryRow(
		`SELECT title, price FROM listings WHERE url = ?`,
		"https://www.olx.in/item/1002",
	).Scan(&title, &price))
	assert.Equal(t, "Silver matty cover", title)
	assert.False(t, price.Valid, "missing price should be stored as NULL")

	// A second run replaces the table rather than appending.
	require.NoError(t, Write(path, FormatSQLite, sampleListings()[:1]))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWriteUnwritablePath(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "out.csv"), FormatCSV, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}
