// Package media decides which files the browser shows and reads basic image
// metadata for them.
package media

import (
	"path/filepath"
	"strings"
)

// DefaultExtensions are the image types listed when no configuration overrides them.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".svg"}

// Filter matches file names by extension, case-insensitively.
type Filter struct {
	exts map[string]bool
}

// NewFilter builds a filter from extensions with or without the leading dot.
// An empty list means DefaultExtensions.
func NewFilter(exts []string) Filter {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	f := Filter{exts: make(map[string]bool, len(exts))}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.exts[ext] = true
	}
	return f
}

// Supported reports whether name has one of the filter's extensions.
func (f Filter) Supported(name string) bool {
	return f.exts[strings.ToLower(filepath.Ext(name))]
}
