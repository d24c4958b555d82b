// Package icons caches decoded icon bitmaps.
//
// Icons are decoded the first time they are asked for and then served from
// memory for the life of the program. The icon vocabulary is small and fixed,
// so entries are never evicted.
package icons

import (
	"errors"
	"io/fs"
	"path"
	"sync"

	"github.com/harveysanders/picoclimate/bitmap"
)

// Dir is the directory inside the asset filesystem that holds the icons.
const Dir = "icons"

// Icon identifiers used by the climate layout.
const (
	Temperature = "temperature.pbm"
	Humidity    = "humidity.pbm"
	Fahrenheit  = "fahrenheit.pbm"
	Celsius     = "celcius.pbm"
	Percent     = "percent.pbm"
)

// ErrResourceNotFound is returned when no asset exists for an identifier.
var ErrResourceNotFound = errors.New("icons: resource not found")

// notFoundError wraps both ErrResourceNotFound and the filesystem error so
// callers can match either.
type notFoundError struct {
	id  string
	err error
}

func (e *notFoundError) Error() string {
	return ErrResourceNotFound.Error() + ": " + e.id
}

func (e *notFoundError) Unwrap() []error {
	return []error{ErrResourceNotFound, e.err}
}

// Cache maps icon identifiers to decoded bitmaps.
//
// The check-then-insert on a miss runs under a mutex, so each identifier is
// decoded at most once even with concurrent callers.
type Cache struct {
	fsys fs.FS
	dir  string

	mu      sync.Mutex
	entries map[string]*bitmap.Bitmap
}

// NewCache returns a cache reading assets from dir inside fsys.
// An empty dir reads from the root of fsys.
func NewCache(fsys fs.FS, dir string) *Cache {
	return &Cache{
		fsys:    fsys,
		dir:     dir,
		entries: make(map[string]*bitmap.Bitmap),
	}
}

// Get returns the bitmap for id, decoding it on first use. A missing asset
// fails with ErrResourceNotFound; a malformed one fails with the decoder's
// *bitmap.FormatError unchanged.
func (c *Cache) Get(id string) (*bitmap.Bitmap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bm, ok := c.entries[id]; ok {
		return bm, nil
	}
	bm, err := c.load(id)
	if err != nil {
		return nil, err
	}
	c.entries[id] = bm
	return bm, nil
}

// Preload decodes every id, stopping at the first failure. Boards call it at
// startup so packaging defects surface before the first frame.
func (c *Cache) Preload(ids ...string) error {
	for _, id := range ids {
		if _, err := c.Get(id); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of decoded icons.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) load(id string) (*bitmap.Bitmap, error) {
	name := id
	if c.dir != "" {
		name = path.Join(c.dir, id)
	}
	if !fs.ValidPath(name) {
		return nil, &notFoundError{id: id, err: fs.ErrInvalid}
	}
	f, err := c.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &notFoundError{id: id, err: err}
		}
		return nil, errors.New("icons: opening " + name + ": " + err.Error())
	}
	defer f.Close()
	return bitmap.Decode(f)
}
