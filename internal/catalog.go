package internal

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Photo is the catalog entity: one imported image.
type Photo struct {
	ID          int64
	Fingerprint string
	Taken       string // YYYYMMDDTHHMMSS or YYYYMMDD
	Width       int
	Height      int
	Rotation    int
}

// FID is the zero-padded external form of the catalog id.
func (p Photo) FID() string {
	return FormatID(p.ID)
}

// Catalog is the authoritative relational record of imported photos and
// the sole authority for id assignment. Append-mostly: no update or
// delete in normal operation.
type Catalog struct {
	db *sql.DB
}

const catalogSchema = `
CREATE TABLE IF NOT EXISTS photos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT    NOT NULL UNIQUE,
	taken       TEXT    NOT NULL,
	width       INTEGER NOT NULL,
	height      INTEGER NOT NULL,
	rotation    INTEGER NOT NULL
);`

// OpenCatalog opens (creating if necessary) the sqlite catalog at path.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	// Single ingesting process assumed, but a busy timeout keeps a stray
	// concurrent reader from failing spuriously.
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure catalog: %w", err)
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Insert assigns the next sequential id and persists all fields in one
// transaction: a row is either fully visible with an id or not visible
// at all. AUTOINCREMENT guarantees ids are never reused even if a later
// operation ever deletes rows.
func (c *Catalog) Insert(p Photo) (int64, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	res, err := tx.Exec(
		`INSERT INTO photos (fingerprint, taken, width, height, rotation) VALUES (?, ?, ?, ?, ?)`,
		p.Fingerprint, p.Taken, p.Width, p.Height, p.Rotation,
	)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to insert photo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to read assigned id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit photo insert: %w", err)
	}
	return id, nil
}

// InsertWithID persists a photo under a pre-assigned id. Only used by
// reconciliation when re-linking a recovered master to its journaled id.
func (c *Catalog) InsertWithID(p Photo) error {
	_, err := c.db.Exec(
		`INSERT INTO photos (id, fingerprint, taken, width, height, rotation) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Fingerprint, p.Taken, p.Width, p.Height, p.Rotation,
	)
	if err != nil {
		return fmt.Errorf("failed to re-link photo %s: %w", FormatID(p.ID), err)
	}
	return nil
}

// ByID looks a photo up by catalog id; nil when absent.
func (c *Catalog) ByID(id int64) (*Photo, error) {
	return c.scanOne(`SELECT id, fingerprint, taken, width, height, rotation FROM photos WHERE id = ?`, id)
}

// ByFingerprint looks a photo up by content fingerprint; nil when absent.
func (c *Catalog) ByFingerprint(fingerprint string) (*Photo, error) {
	return c.scanOne(`SELECT id, fingerprint, taken, width, height, rotation FROM photos WHERE fingerprint = ?`, fingerprint)
}

// Resolve dispatches a tagged key to the matching typed lookup.
func (c *Catalog) Resolve(k Key) (*Photo, error) {
	if k.Kind == KeyFingerprint {
		return c.ByFingerprint(k.Fingerprint)
	}
	return c.ByID(k.ID)
}

// List returns all photos (no ids given) or the named subset, ordered by
// ascending id.
func (c *Catalog) List(ids ...int64) ([]Photo, error) {
	query := `SELECT id, fingerprint, taken, width, height, rotation FROM photos`
	args := make([]interface{}, 0, len(ids))
	if len(ids) > 0 {
		placeholders := strings.Repeat("?,", len(ids))
		query += ` WHERE id IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += ` ORDER BY id ASC`

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.Fingerprint, &p.Taken, &p.Width, &p.Height, &p.Rotation); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// MostRecent returns the n highest ids, oldest of the selection first.
func (c *Catalog) MostRecent(n int) ([]int64, error) {
	rows, err := c.db.Query(`SELECT id FROM photos ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent photos: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse into ascending order
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids, nil
}

// Count returns the number of cataloged photos.
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&n)
	return n, err
}

func (c *Catalog) scanOne(query string, arg interface{}) (*Photo, error) {
	var p Photo
	err := c.db.QueryRow(query, arg).Scan(&p.ID, &p.Fingerprint, &p.Taken, &p.Width, &p.Height, &p.Rotation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	return &p, nil
}
