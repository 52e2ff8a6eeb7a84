package nav

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry maps route names to absolute paths. Names are unique and a name
// is never rebound to a different directory; it only grows.
type Registry struct {
	byName  map[string]string
	byPath  map[string]string
	aliases map[string]string // path -> well-known name
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]string),
		byPath:  make(map[string]string),
		aliases: make(map[string]string),
	}
}

// Seed registers well-known locations under their alias names.
func (r *Registry) Seed(locations []Location) {
	for _, loc := range locations {
		path := filepath.Clean(loc.Path)
		if _, ok := r.aliases[path]; !ok && loc.Name != "" {
			r.aliases[path] = loc.Name
		}
		r.RegisterPath(path)
	}
}

// RegisterPath returns the route name for path, registering it if needed.
// A path already known keeps its name. A derived name that is bound to a
// different path is disambiguated with the parent's name and, if that is
// taken too, a counter.
func (r *Registry) RegisterPath(path string) string {
	path = filepath.Clean(path)
	if name, ok := r.byPath[path]; ok {
		return name
	}

	name := r.deriveName(path)
	if existing, ok := r.byName[name]; ok && existing != path {
		name = r.disambiguate(name, path)
	}

	r.byName[name] = path
	r.byPath[path] = name
	r.order = append(r.order, name)
	return name
}

func (r *Registry) deriveName(path string) string {
	if alias, ok := r.aliases[path]; ok {
		return alias
	}
	return leafName(path)
}

func (r *Registry) disambiguate(name, path string) string {
	parent := leafName(filepath.Dir(path))
	candidate := fmt.Sprintf("%s (%s)", name, parent)
	for i := 2; ; i++ {
		existing, taken := r.byName[candidate]
		if !taken || existing == path {
			return candidate
		}
		candidate = fmt.Sprintf("%s (%s) %d", name, parent, i)
	}
}

// Resolve returns the path bound to name.
func (r *Registry) Resolve(name string) (string, error) {
	path, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return path, nil
}

// NameFor returns the name registered for path, if any.
func (r *Registry) NameFor(path string) (string, bool) {
	name, ok := r.byPath[filepath.Clean(path)]
	return name, ok
}

// Routes returns all routes in registration order.
func (r *Registry) Routes() []Route {
	routes := make([]Route, 0, len(r.order))
	for _, name := range r.order {
		routes = append(routes, Route{Name: name, Path: r.byName[name]})
	}
	return routes
}

// leafName returns the final path segment, or the root itself for a root.
func leafName(path string) string {
	base := filepath.Base(path)
	if base == string(filepath.Separator) || base == "." || strings.HasSuffix(base, ":") {
		vol := filepath.VolumeName(path)
		return vol + string(filepath.Separator)
	}
	return base
}
