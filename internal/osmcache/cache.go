// Package osmcache persists raw Overpass responses on disk so repeated
// queries for unchanged geography skip the network round-trip.
package osmcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"synthgrid/internal/geo"
	"synthgrid/internal/overpass"
)

// Cache is a file-backed response cache with a TTL. Read and write failures
// never surface as pipeline errors: a bad read is a miss, a bad write is
// logged and dropped. Entries are published atomically (write to a temp
// file, then rename) so an interrupted write is never visible as a
// complete entry.
type Cache struct {
	dir    string
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time
}

type entry struct {
	StoredAt time.Time          `json:"stored_at"`
	Region   geo.Region         `json:"region"`
	Elements []overpass.Element `json:"elements"`
}

// New creates the cache directory if needed and returns a cache handle.
func New(dir string, ttl time.Duration, logger *log.Logger) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("osmcache: empty cache dir")
	}
	if ttl <= 0 {
		return nil, errors.New("osmcache: ttl must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("osmcache: create dir: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{dir: dir, ttl: ttl, logger: logger, now: time.Now}, nil
}

// Key derives the stable cache key for a region.
func Key(region geo.Region) string {
	sum := sha256.Sum256([]byte(region.Key()))
	return hex.EncodeToString(sum[:])[:24]
}

// Get returns the cached elements for a region, or ok=false on a miss.
// Expired entries are removed best-effort.
func (c *Cache) Get(region geo.Region) ([]overpass.Element, bool) {
	path := c.path(region)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var stored entry
	if err := json.Unmarshal(data, &stored); err != nil {
		c.logger.Printf("osmcache: discarding unreadable entry %s: %v", filepath.Base(path), err)
		_ = os.Remove(path)
		return nil, false
	}
	if c.now().Sub(stored.StoredAt) > c.ttl {
		_ = os.Remove(path)
		return nil, false
	}
	return stored.Elements, true
}

// Put stores elements for a region. Failures are logged and swallowed.
func (c *Cache) Put(region geo.Region, elements []overpass.Element) {
	payload, err := json.Marshal(entry{
		StoredAt: c.now().UTC(),
		Region:   region,
		Elements: elements,
	})
	if err != nil {
		c.logger.Printf("osmcache: marshal entry: %v", err)
		return
	}

	path := c.path(region)
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		c.logger.Printf("osmcache: create temp file: %v", err)
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		c.logger.Printf("osmcache: write entry: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		c.logger.Printf("osmcache: close entry: %v", err)
		return
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		c.logger.Printf("osmcache: publish entry: %v", err)
	}
}

// Info summarizes the cache contents for the API.
type Info struct {
	Dir        string        `json:"directory"`
	Entries    int           `json:"entries"`
	TotalBytes int64         `json:"total_bytes"`
	TTL        time.Duration `json:"-"`
	TTLSeconds float64       `json:"ttl_seconds"`
}

// Stat walks the cache directory and reports entry count and size.
func (c *Cache) Stat() Info {
	info := Info{Dir: c.dir, TTL: c.ttl, TTLSeconds: c.ttl.Seconds()}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return info
	}
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != ".json" {
			continue
		}
		info.Entries++
		if fi, err := dirEntry.Info(); err == nil {
			info.TotalBytes += fi.Size()
		}
	}
	return info
}

// Clear removes all cache entries and reports how many were deleted.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("osmcache: read dir: %w", err)
	}
	removed := 0
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, dirEntry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (c *Cache) path(region geo.Region) string {
	return filepath.Join(c.dir, Key(region)+".json")
}
