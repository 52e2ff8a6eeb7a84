package nav

import (
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// routeCache holds the listing of one route.
type routeCache struct {
	files      []Entry // FromFilesystem, sorted
	ephemeral  []Entry // appended in attach order
	generation uint64
	loaded     bool
	stale      bool
	lastErr    error
}

// Cache keeps per-route entry listings. It is not safe for concurrent use;
// the Engine serializes access.
type Cache struct {
	routes   map[string]*routeCache
	collator *collate.Collator
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		routes:   make(map[string]*routeCache),
		collator: collate.New(language.Und, collate.IgnoreCase, collate.Numeric),
	}
}

func (c *Cache) route(name string) *routeCache {
	rc, ok := c.routes[name]
	if !ok {
		rc = &routeCache{}
		c.routes[name] = rc
	}
	return rc
}

// Ensure creates an empty entry for name if there is none.
func (c *Cache) Ensure(name string) {
	c.route(name)
}

// Begin issues a new load generation for name.
func (c *Cache) Begin(name string) uint64 {
	rc := c.route(name)
	rc.generation++
	return rc.generation
}

// Generation returns the latest generation issued for name.
func (c *Cache) Generation(name string) uint64 {
	if rc, ok := c.routes[name]; ok {
		return rc.generation
	}
	return 0
}

// Apply replaces the filesystem entries of name when gen is still the latest
// generation. Ephemeral entries are kept. It reports whether it applied.
func (c *Cache) Apply(name string, gen uint64, files []Entry) bool {
	rc := c.route(name)
	if gen != rc.generation {
		return false
	}
	c.sort(files)
	rc.files = files
	rc.loaded = true
	rc.stale = false
	rc.lastErr = nil
	return true
}

// Fail records a failed load for gen. Entries stay as they were.
func (c *Cache) Fail(name string, gen uint64, err error) bool {
	rc := c.route(name)
	if gen != rc.generation {
		return false
	}
	rc.lastErr = err
	return true
}

// Invalidate marks name for reload without dropping displayed entries.
func (c *Cache) Invalidate(name string) {
	if rc, ok := c.routes[name]; ok {
		rc.stale = true
	}
}

// NeedsLoad reports whether name was never loaded or is stale.
func (c *Cache) NeedsLoad(name string) bool {
	rc, ok := c.routes[name]
	return !ok || !rc.loaded || rc.stale
}

// IsStale reports whether name was invalidated and not reloaded yet.
func (c *Cache) IsStale(name string) bool {
	rc, ok := c.routes[name]
	return ok && rc.stale
}

// LastError returns the error of the latest load of name, if it failed.
func (c *Cache) LastError(name string) error {
	if rc, ok := c.routes[name]; ok {
		return rc.lastErr
	}
	return nil
}

// AddEphemeral appends in-memory entries for items attached from elsewhere.
// Each gets a fresh synthetic id.
func (c *Cache) AddEphemeral(name string, sources []DirItem) []Entry {
	rc := c.route(name)
	added := make([]Entry, 0, len(sources))
	for _, src := range sources {
		e := Entry{
			ID:         "ephemeral:" + uuid.NewString(),
			Name:       norm.NFC.String(src.Name),
			Path:       src.Path,
			PreviewURI: previewURI(src.Path),
			Origin:     Ephemeral,
			Size:       src.Size,
			ModTime:    src.ModTime,
		}
		added = append(added, e)
	}
	rc.ephemeral = append(rc.ephemeral, added...)
	return added
}

// RemoveEphemeral drops the ephemeral entries with the given ids.
func (c *Cache) RemoveEphemeral(name string, ids []string) int {
	rc, ok := c.routes[name]
	if !ok {
		return 0
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := rc.ephemeral[:0]
	removed := 0
	for _, e := range rc.ephemeral {
		if drop[e.ID] {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	rc.ephemeral = kept
	return removed
}

// Entries returns a copy of the route's entries: filesystem first, then
// ephemeral. Selected is not applied.
func (c *Cache) Entries(name string) []Entry {
	rc, ok := c.routes[name]
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(rc.files)+len(rc.ephemeral))
	out = append(out, rc.files...)
	out = append(out, rc.ephemeral...)
	return out
}

// Lookup finds an entry by id.
func (c *Cache) Lookup(name, id string) (Entry, bool) {
	rc, ok := c.routes[name]
	if !ok {
		return Entry{}, false
	}
	for _, e := range rc.files {
		if e.ID == id {
			return e, true
		}
	}
	for _, e := range rc.ephemeral {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// IDs returns the ids currently cached for name.
func (c *Cache) IDs(name string) []string {
	entries := c.Entries(name)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func (c *Cache) sort(entries []Entry) {
	if len(entries) < 2 {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := c.collator.CompareString(entries[i].Name, entries[j].Name); cmp != 0 {
			return cmp < 0
		}
		return entries[i].Path < entries[j].Path
	})
}

// Prober fills in image dimensions; ok is false when the file can't be read.
type Prober func(path string) (width, height int, ok bool)

// filesystemEntries turns a raw listing into entries, keeping only
// non-directory items accepted by keep.
func filesystemEntries(items []DirItem, keep func(name string) bool, probe Prober) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.IsDir || !keep(item.Name) {
			continue
		}
		path := filepath.Clean(item.Path)
		e := Entry{
			ID:         path,
			Name:       norm.NFC.String(item.Name),
			Path:       path,
			PreviewURI: previewURI(path),
			Origin:     FromFilesystem,
			Size:       item.Size,
			ModTime:    item.ModTime,
		}
		if probe != nil {
			if w, h, ok := probe(path); ok {
				e.Width, e.Height = w, h
			}
		}
		entries = append(entries, e)
	}
	return entries
}
