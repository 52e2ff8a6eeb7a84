package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/justyntemme/picroute/internal/debug"
	"github.com/justyntemme/picroute/internal/nav"
)

// wellKnown are the folders offered at startup, by alias and home-relative
// directory name.
var wellKnown = []struct{ alias, dir string }{
	{"desktop", "Desktop"},
	{"downloads", "Downloads"},
	{"pictures", "Pictures"},
	{"documents", "Documents"},
}

// DefaultLocations returns the well-known folders that exist under the home
// directory, then favorites, then mounted volumes when enabled.
func (s *System) DefaultLocations(ctx context.Context) ([]nav.Location, error) {
	home := s.opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, classify("home", "", err)
		}
		home = h
	}

	var locs []nav.Location
	seen := make(map[string]bool)
	add := func(name, path string) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true
		locs = append(locs, nav.Location{Name: name, Path: path})
	}

	for _, wk := range wellKnown {
		path := filepath.Join(home, wk.dir)
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			debug.Log(debug.FS, "locations: skipping %s (%s)", wk.alias, path)
			continue
		}
		add(wk.alias, path)
	}
	if len(locs) == 0 {
		add("home", home)
	}

	for _, fav := range s.opts.Favorites {
		if fav.Path == "" {
			continue
		}
		add(fav.Name, fav.Path)
	}

	if s.opts.IncludeVolumes && ctx.Err() == nil {
		for _, v := range ListDrives() {
			add(v.Name, v.Path)
		}
	}
	return locs, nil
}
