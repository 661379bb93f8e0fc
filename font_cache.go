package typestrings

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// FontCache keeps parsed fonts keyed by their content, so a font edited on
// disk is reloaded while repeated runs over the same font share one parse.
// Font files are keyed by a hash of their bytes; UFO directories by a hash
// of every .plist and .glif file they contain. The least recently used font
// is evicted once the cache is full.
type FontCache struct {
	mu      sync.Mutex
	entries *linkedhashmap.Map // key -> *cacheEntry, least recently used first
	maxSize int
	stats   CacheStats
}

type cacheEntry struct {
	font *Font
	size int64
}

// Global default cache for convenience
var defaultCache = NewFontCache(100)

// NewFontCache creates a cache holding at most maxSize fonts.
// A maxSize of 0 or negative means unlimited.
func NewFontCache(maxSize int) *FontCache {
	return &FontCache{
		entries: linkedhashmap.New(),
		maxSize: maxSize,
	}
}

// LoadFontCached loads a font file or UFO directory through the default cache.
func LoadFontCached(path string) (*Font, error) {
	return defaultCache.LoadFont(path)
}

// LoadFont loads a font file or UFO directory, reusing an earlier parse when
// the content is unchanged. It is safe for concurrent use.
func (c *FontCache) LoadFont(path string) (*Font, error) {
	key, err := fingerprint(path)
	if err != nil {
		c.miss()
		return nil, fmt.Errorf("failed to open font: %w", err)
	}
	return c.load(key, func() (*Font, error) { return LoadFont(path) })
}

// ParseFontCached parses OpenType data through the default cache.
func ParseFontCached(data []byte) (*Font, error) {
	return defaultCache.ParseFont(data)
}

// ParseFont parses OpenType data, reusing an earlier parse of identical bytes.
func (c *FontCache) ParseFont(data []byte) (*Font, error) {
	h := sha256.Sum256(data)
	key := "data:" + hex.EncodeToString(h[:])
	return c.load(key, func() (*Font, error) { return ParseFont(data) })
}

func (c *FontCache) load(key string, parse func() (*Font, error)) (*Font, error) {
	if f := c.get(key); f != nil {
		return f, nil
	}
	f, err := parse()
	if err != nil {
		c.miss()
		return nil, err
	}
	c.put(key, f)
	return f, nil
}

func (c *FontCache) get(key string) *Font {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if !ok {
		c.stats.Misses++
		return nil
	}
	// re-insert to mark as most recently used
	c.entries.Remove(key)
	c.entries.Put(key, v)
	c.stats.Hits++
	return v.(*cacheEntry).font
}

func (c *FontCache) put(key string, f *Font) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries.Get(key); ok {
		return
	}
	if c.maxSize > 0 && c.entries.Size() >= c.maxSize {
		it := c.entries.Iterator()
		if it.First() {
			c.entries.Remove(it.Key())
			c.stats.Evictions++
		}
	}
	c.entries.Put(key, &cacheEntry{font: f, size: estimateFontSize(f)})
}

func (c *FontCache) miss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}

// Clear drops every cached font. Counters are kept.
func (c *FontCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Clear()
}

// Stats returns a snapshot of the cache counters.
func (c *FontCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.entries.Size()
	s.MaxSize = c.maxSize
	s.Bytes = 0
	for _, v := range c.entries.Values() {
		s.Bytes += v.(*cacheEntry).size
	}
	return s
}

// CacheStats contains cache performance statistics
type CacheStats struct {
	Size      int    // Current number of cached fonts
	MaxSize   int    // Maximum cache size
	Bytes     int64  // Estimated memory held by cached fonts
	Hits      uint64 // Number of cache hits
	Misses    uint64 // Number of cache misses
	Evictions uint64 // Number of evictions
}

// HitRate returns the cache hit rate as a percentage (0-100)
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

// fingerprint derives a content key for a font path. The base name is part
// of the key since it becomes the font's fallback name.
func fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	kind := "file"
	if info.IsDir() {
		kind = "ufo"
		err = hashUFO(h, path)
	} else {
		err = hashFile(h, path)
	}
	if err != nil {
		return "", err
	}
	base := filepath.Base(filepath.Clean(path))
	return kind + ":" + base + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// hashUFO feeds the relative path and bytes of every .plist and .glif file
// under dir into h, in lexical order.
func hashUFO(h hash.Hash, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if ext != ".plist" && ext != ".glif" {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		io.WriteString(h, filepath.ToSlash(rel))
		h.Write([]byte{0})
		return hashFile(h, p)
	})
}

func hashFile(h hash.Hash, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(h, f)
	return err
}

// estimateFontSize approximates the memory held by a parsed font: the
// advance map, the repertoire and, for flat kerning tables, the pairs.
// OpenType kerning is looked up lazily and not counted.
func estimateFontSize(f *Font) int64 {
	if f == nil || f.data == nil {
		return 0
	}

	size := int64(100)
	size += int64(f.data.NumGlyphs() * 48)
	size += int64(f.data.Repertoire().Len() * 40)
	if k, ok := f.data.Kerning().(interface{ Len() int }); ok {
		size += int64(k.Len() * 56)
	}
	return size
}

// SetDefaultCacheSize replaces the default cache with an empty one holding
// at most maxSize fonts.
func SetDefaultCacheSize(maxSize int) {
	defaultCache = NewFontCache(maxSize)
}

// ClearDefaultCache clears the default font cache.
func ClearDefaultCache() {
	defaultCache.Clear()
}

// DefaultCacheStats returns statistics for the default cache.
func DefaultCacheStats() CacheStats {
	return defaultCache.Stats()
}
