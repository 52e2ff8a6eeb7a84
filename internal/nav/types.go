package nav

import (
	"net/url"
	"path/filepath"
	"time"
)

// Origin tells where an Entry came from.
type Origin int

const (
	FromFilesystem Origin = iota
	Ephemeral
)

func (o Origin) String() string {
	if o == Ephemeral {
		return "ephemeral"
	}
	return "filesystem"
}

// Route is a named, navigable filesystem location.
type Route struct {
	Name string
	Path string
}

// Location is a well-known or user-pinned place offered at startup.
type Location struct {
	Name string
	Path string
}

// DirItem is one raw item returned by Provider.ListDirectory.
type DirItem struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Entry is one file (or in-memory item) shown under a route.
// Only Selected is applied at read time; the rest never changes.
type Entry struct {
	ID         string
	Name       string
	Path       string // For Ephemeral entries: where the item was attached from
	PreviewURI string
	Origin     Origin
	Selected   bool
	Size       int64
	ModTime    time.Time
	Width      int
	Height     int
}

// previewURI builds a file:// URI for path.
func previewURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
