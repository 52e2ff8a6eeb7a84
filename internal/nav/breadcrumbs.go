package nav

import (
	"path/filepath"
	"strings"
)

// Crumb is one clickable segment of the current path.
type Crumb struct {
	Name string
	Path string
}

// Breadcrumbs splits path into segments. Crumb i navigates to the first i+1
// segments joined with the platform separator. It is pure string work and
// does not consult the route registry or the filesystem.
func Breadcrumbs(path string) []Crumb {
	if path == "" {
		return nil
	}
	sep := string(filepath.Separator)
	vol := filepath.VolumeName(path)
	rest := path[len(vol):]

	var crumbs []Crumb
	prefix := vol
	if strings.HasPrefix(rest, sep) || strings.HasPrefix(rest, "/") {
		prefix = vol + sep
		crumbs = append(crumbs, Crumb{Name: prefix, Path: prefix})
	} else if vol != "" {
		crumbs = append(crumbs, Crumb{Name: vol, Path: vol})
	}

	for _, seg := range strings.FieldsFunc(rest, isSeparator) {
		var next string
		switch {
		case prefix == "":
			next = seg
		case strings.HasSuffix(prefix, sep):
			next = prefix + seg
		default:
			next = prefix + sep + seg
		}
		crumbs = append(crumbs, Crumb{Name: seg, Path: next})
		prefix = next
	}
	return crumbs
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
