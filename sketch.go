/*
Package sketch is a library for loading, converting, storing and drawing
raster images in the TGA and BMP formats.
*/
package sketch

import (
	"errors"
	"log"
)

// ErrNoDatabase is returned by operations that need an image store when the
// Sketch was created without one.
var ErrNoDatabase = errors.New("sketch: no image database")

type Sketch struct {
	db     *ImageDB
	logger *log.Logger
}

// New returns a Sketch using the image store in file. An empty file name
// creates a Sketch without a store.
func New(file string, logger *log.Logger) (*Sketch, error) {
	s := &Sketch{
		logger: logger,
	}

	if file != "" {
		db, err := NewImageDB(file)
		if err != nil {
			return nil, err
		}
		s.db = db
	}

	return s, nil
}

func (s *Sketch) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Export writes the stored image name to path.
func (s *Sketch) Export(name, path string, o *Options) error {
	if s.db == nil {
		return ErrNoDatabase
	}

	m, err := s.db.Get(name)
	if err != nil {
		return err
	}

	if err := Save(path, m, o); err != nil {
		return err
	}
	s.logger.Printf("Exported \"%s\" to \"%s\"\n", name, path)

	return nil
}

// List returns every stored image.
func (s *Sketch) List() ([]Entry, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return s.db.List()
}

// Remove deletes the stored image name.
func (s *Sketch) Remove(name string) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return s.db.Delete(name)
}
