package sketch

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bodgit/sketch/pixmap"
	"github.com/bodgit/sketch/tga"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no image is stored under a name.
var ErrNotFound = errors.New("sketch: image not found")

// ImageDB stores named images in SQLite. Each image is kept as a run-length
// encoded TGA file compressed with zstd alongside the palette of single byte
// images, identical images are stored once.
type ImageDB struct {
	db *sql.DB
	mu sync.Mutex
}

func NewImageDB(file string) (*ImageDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS blob (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, bpp INTEGER NOT NULL, palette BLOB, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, blob_id INTEGER NOT NULL, FOREIGN KEY(blob_id) REFERENCES blob(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &ImageDB{
		db: db,
	}, nil
}

func (db *ImageDB) Close() error {
	return db.db.Close()
}

func compress(b []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc, err := zstd.NewWriter(buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(b); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

func (db *ImageDB) addBlob(m *pixmap.Pixmap) (int64, error) {
	b := new(bytes.Buffer)
	if err := tga.Encode(b, m, &tga.DefaultOptions); err != nil {
		return 0, err
	}

	// TGA has nowhere to keep the palette
	var palette []byte
	if pal := m.Palette(); pal != nil {
		var err error
		if palette, err = pal.MarshalBinary(); err != nil {
			return 0, err
		}
	}

	h := sha1.New()
	h.Write(b.Bytes())
	h.Write(palette)
	sha := fmt.Sprintf("%X", h.Sum(nil))

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM blob WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		data, err := compress(b.Bytes())
		if err != nil {
			return 0, err
		}
		result, err := db.db.Exec("INSERT INTO blob (sha1, width, height, bpp, palette, data) VALUES (?, ?, ?, ?, ?, ?)", sha, m.Width(), m.Height(), m.BytesPerPixel(), palette, data)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Put stores m under name, replacing any image already stored with that
// name.
func (db *ImageDB) Put(name string, m *pixmap.Pixmap) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	blob, err := db.addBlob(m)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT INTO image (name, blob_id) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET blob_id = excluded.blob_id", name, blob); err != nil {
		return err
	}

	return db.prune()
}

// prune removes blobs no longer referenced by any image.
func (db *ImageDB) prune() error {
	_, err := db.db.Exec("DELETE FROM blob WHERE id NOT IN (SELECT blob_id FROM image)")
	return err
}

// Get returns the image stored under name.
func (db *ImageDB) Get(name string) (*pixmap.Pixmap, error) {
	var palette, data []byte
	switch err := db.db.QueryRow("SELECT b.palette, b.data FROM image AS i JOIN blob AS b ON i.blob_id = b.id WHERE i.name = ?", name).Scan(&palette, &data); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
	default:
		return nil, err
	}

	b, err := decompress(data)
	if err != nil {
		return nil, err
	}

	m, err := tga.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	if len(palette) != 0 {
		pal := new(pixmap.Palette)
		if err := pal.UnmarshalBinary(palette); err != nil {
			return nil, err
		}
		if err := m.SetPalette(pal); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Delete removes the image stored under name.
func (db *ImageDB) Delete(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.db.Exec("DELETE FROM image WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return db.prune()
}

// Entry describes a stored image.
type Entry struct {
	Name          string
	Width, Height int
	BytesPerPixel int
	SHA1          string
}

// List returns every stored image ordered by name.
func (db *ImageDB) List() ([]Entry, error) {
	rows, err := db.db.Query("SELECT i.name, b.width, b.height, b.bpp, b.sha1 FROM image AS i JOIN blob AS b ON i.blob_id = b.id ORDER BY i.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Width, &e.Height, &e.BytesPerPixel, &e.SHA1); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
