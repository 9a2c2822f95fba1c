package writer

import (
	"database/sql"
	"fmt"

	"adscan/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
DROP TABLE IF EXISTS listings;
CREATE TABLE listings (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT,
	price         TEXT,
	location      TEXT,
	url           TEXT,
	thumbnail_url TEXT
);
`

// writeSQLite writes listings into a fresh `listings` table. The table is
// dropped and recreated so the file matches the overwrite semantics of the
// other formats; nothing from a previous run is read back.
func writeSQLite(path string, listings []models.Listing) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("%w: failed to create schema: %v", ErrIO, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO listings (title, price, location, url, thumbnail_url) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if _, err := stmt.Exec(
			nullString(l.Title),
			nullString(l.Price),
			nullString(l.Location),
			nullString(l.URL),
			nullString(l.ThumbnailURL),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: insert failed: %v", ErrIO, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
