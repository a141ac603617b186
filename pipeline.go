package sketch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const numWorkers = 10

func (s *Sketch) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if FormatOf(file) == "" {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// imageName returns the name an imported file is stored under: its path
// relative to base, slash separated and without the extension.
func imageName(base, file string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))), nil
}

// claims tracks which source file produces each output so two sources never
// write the same file or image name.
type claims struct {
	mu sync.Mutex
	m  map[string]string
}

func newClaims() *claims {
	return &claims{
		m: make(map[string]string),
	}
}

func (c *claims) claim(target, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if other, ok := c.m[target]; ok {
		return fmt.Errorf("sketch: \"%s\" and \"%s\" both map to \"%s\"", other, source, target)
	}
	c.m[target] = source
	return nil
}

func (s *Sketch) importWorker(base string, claimed *claims, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			m, err := Load(file)
			if err != nil {
				errc <- err
				return
			}

			name, err := imageName(base, file)
			if err != nil {
				errc <- err
				return
			}

			if err := claimed.claim(name, file); err != nil {
				errc <- err
				return
			}

			if err := s.db.Put(name, m); err != nil {
				errc <- err
				return
			}
			s.logger.Printf("Imported \"%s\" as \"%s\"\n", file, name)
		}
	}()
	return errc, nil
}

func (s *Sketch) convertWorker(format string, o *Options, claimed *claims, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if FormatOf(file) == format {
				continue
			}

			target := strings.TrimSuffix(file, filepath.Ext(file)) + "." + format
			if err := claimed.claim(target, file); err != nil {
				errc <- err
				return
			}

			m, err := Load(file)
			if err != nil {
				errc <- err
				return
			}

			if err := Save(target, m, o); err != nil {
				errc <- err
				return
			}
			s.logger.Printf("Converted \"%s\" to \"%s\"\n", file, target)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (s *Sketch) run(path string, worker func(string, <-chan string) (<-chan error, error)) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := s.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := worker(dir, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}

// Import walks path and stores every image found in the image database.
// Two files that would be stored under the same name are reported as an
// error.
func (s *Sketch) Import(path string) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	claimed := newClaims()
	return s.run(path, func(base string, in <-chan string) (<-chan error, error) {
		return s.importWorker(base, claimed, in)
	})
}

// Convert walks path and writes a copy of every image found in format next
// to the original. Images already in format are skipped. Two images that
// would write the same file, such as a.tga and a.bmp converting to a.png,
// are reported as an error.
func (s *Sketch) Convert(path, format string, o *Options) error {
	switch format {
	case FormatTGA, FormatBMP, FormatPNG:
	default:
		return errors.New("sketch: unsupported output format")
	}
	claimed := newClaims()
	return s.run(path, func(_ string, in <-chan string) (<-chan error, error) {
		return s.convertWorker(format, o, claimed, in)
	})
}
