// Package nav is the directory navigation and content state engine: it tracks
// the current route, back/forward history, per-route listings and selections,
// and coordinates file operations with cache invalidation.
//
// All state is owned by an Engine. Its methods may be called from any
// goroutine; provider and dialog calls run without holding the state lock,
// and every directory load is tagged with a per-route generation so that a
// slow, superseded load never overwrites a newer one.
package nav

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/justyntemme/picroute/internal/debug"
	"github.com/justyntemme/picroute/internal/media"
	"github.com/justyntemme/picroute/internal/metrics"
)

// Options configures an Engine.
type Options struct {
	Extensions      []string // Empty means media.DefaultExtensions
	ProbeDimensions bool
	ConfirmTrash    bool
	MaxHistory      int
	StartLocation   string // Location name or absolute path
	TrashName       string // Shown in the trash confirmation; empty means "trash"
	// StrictStart makes Start fail with ErrUnknownRoute when StartLocation
	// names nothing, instead of falling back to the first location.
	StrictStart bool
	Metrics         *metrics.Metrics
}

// Engine owns the navigation state.
type Engine struct {
	mu sync.Mutex

	provider Provider
	dialogs  Dialogs
	opts     Options
	filter   media.Filter
	probe    Prober
	metrics  *metrics.Metrics

	registry  *Registry
	cache     *Cache
	selection *Selection
	history   *History

	busy map[string]bool
}

// New creates an engine. dialogs may be nil, in which case confirmations are
// skipped and destination prompts behave as cancelled.
func New(provider Provider, dialogs Dialogs, opts Options) *Engine {
	e := &Engine{
		provider:  provider,
		dialogs:   dialogs,
		opts:      opts,
		filter:    media.NewFilter(opts.Extensions),
		metrics:   opts.Metrics,
		registry:  NewRegistry(),
		cache:     NewCache(),
		selection: NewSelection(),
		history:   NewHistory("", opts.MaxHistory),
		busy:      make(map[string]bool),
	}
	if opts.ProbeDimensions {
		e.probe = probeDimensions
	}
	return e
}

func probeDimensions(path string) (int, int, bool) {
	info, err := media.Probe(path)
	if err != nil {
		debug.Log(debug.CACHE, "probe %q: %v", path, err)
		return 0, 0, false
	}
	return info.Width, info.Height, true
}

// Start seeds the registry with the provider's default locations and
// navigates to the start location. A failing location lookup is not fatal.
func (e *Engine) Start(ctx context.Context) error {
	locations, err := e.provider.DefaultLocations(ctx)
	if err != nil {
		debug.Log(debug.APP, "default locations: %v", err)
	}

	e.mu.Lock()
	e.registry.Seed(locations)
	for _, r := range e.registry.Routes() {
		e.cache.Ensure(r.Name)
	}
	e.metrics.SetRoutes(len(e.registry.Routes()))
	start, err := e.startPath(locations)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if start == "" {
		debug.Log(debug.APP, "no start location")
		return nil
	}
	return e.NavigateTo(ctx, start)
}

// startPath must be called with e.mu held.
func (e *Engine) startPath(locations []Location) (string, error) {
	if want := e.opts.StartLocation; want != "" {
		if path, err := e.registry.Resolve(want); err == nil {
			return path, nil
		}
		if filepath.IsAbs(want) {
			return filepath.Clean(want), nil
		}
		if e.opts.StrictStart {
			return "", fmt.Errorf("%w: %q", ErrUnknownRoute, want)
		}
		debug.Log(debug.APP, "start location %q not found, using first location", want)
	}
	if len(locations) > 0 {
		return filepath.Clean(locations[0].Path), nil
	}
	return "", nil
}

// CurrentRoute returns the current route; false before the first navigation.
func (e *Engine) CurrentRoute() (Route, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentRoute()
}

func (e *Engine) currentRoute() (Route, bool) {
	path := e.history.Current()
	if path == "" {
		return Route{}, false
	}
	name, ok := e.registry.NameFor(path)
	if !ok {
		return Route{}, false
	}
	return Route{Name: name, Path: path}, true
}

// CurrentEntries returns the current route's entries with Selected applied.
func (e *Engine) CurrentEntries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.currentRoute()
	if !ok {
		return nil
	}
	return e.entriesLocked(r.Name)
}

// Entries returns a route's entries with Selected applied.
func (e *Engine) Entries(route string) []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entriesLocked(route)
}

func (e *Engine) entriesLocked(route string) []Entry {
	entries := e.cache.Entries(route)
	for i := range entries {
		entries[i].Selected = e.selection.IsSelected(route, entries[i].ID)
	}
	return entries
}

// Routes returns every registered route in registration order.
func (e *Engine) Routes() []Route {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Routes()
}

// Resolve returns the path of a registered route.
func (e *Engine) Resolve(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Resolve(name)
}

func (e *Engine) CanGoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanGoBack()
}

func (e *Engine) CanGoForward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanGoForward()
}

// CanGoToParent is false at a filesystem root and before the first navigation.
func (e *Engine) CanGoToParent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.history.Parent()
	return ok
}

// Breadcrumbs returns the crumbs of the current path.
func (e *Engine) Breadcrumbs() []Crumb {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Breadcrumbs(e.history.Current())
}

// NavigateTo makes path current and loads it. Load failures are returned
// but the history transition stays in place so the user can go back.
func (e *Engine) NavigateTo(ctx context.Context, path string) error {
	path, err := absPath(path)
	if err != nil {
		return err
	}

	e.mu.Lock()
	moved := e.history.NavigateTo(path)
	name := e.registry.RegisterPath(path)
	e.cache.Ensure(name)
	e.metrics.SetRoutes(len(e.registry.Routes()))
	e.mu.Unlock()

	debug.Log(debug.NAV, "navigate %q (route %q, moved=%v)", path, name, moved)
	return e.load(ctx, name)
}

// NavigateToRoute navigates to a registered route by name.
func (e *Engine) NavigateToRoute(ctx context.Context, name string) error {
	path, err := e.Resolve(name)
	if err != nil {
		return err
	}
	return e.NavigateTo(ctx, path)
}

// GoBack is a no-op when there is nothing to go back to.
func (e *Engine) GoBack(ctx context.Context) error {
	return e.step(ctx, "back", (*History).GoBack)
}

// GoForward is a no-op when there is nothing to go forward to.
func (e *Engine) GoForward(ctx context.Context) error {
	return e.step(ctx, "forward", (*History).GoForward)
}

func (e *Engine) step(ctx context.Context, label string, move func(*History) bool) error {
	e.mu.Lock()
	if !move(e.history) {
		e.mu.Unlock()
		return nil
	}
	path := e.history.Current()
	name := e.registry.RegisterPath(path)
	needsLoad := e.cache.NeedsLoad(name)
	e.mu.Unlock()

	debug.Log(debug.NAV, "%s to %q (reload=%v)", label, path, needsLoad)
	if !needsLoad {
		e.updateGauge()
		return nil
	}
	return e.load(ctx, name)
}

// GoToParent navigates to the parent directory. At a root it does nothing.
func (e *Engine) GoToParent(ctx context.Context) error {
	e.mu.Lock()
	parent, ok := e.history.Parent()
	e.mu.Unlock()
	if !ok {
		debug.Log(debug.NAV, "parent: already at root")
		return nil
	}
	return e.NavigateTo(ctx, parent)
}

// Refresh reloads the current route.
func (e *Engine) Refresh(ctx context.Context) error {
	r, ok := e.CurrentRoute()
	if !ok {
		return nil
	}
	return e.load(ctx, r.Name)
}

// Load reloads a route whether or not it is current.
func (e *Engine) Load(ctx context.Context, route string) error {
	return e.load(ctx, route)
}

// load lists the route's directory and applies the result if no newer load
// was issued in the meantime. A superseded load returns nil.
func (e *Engine) load(ctx context.Context, name string) error {
	e.mu.Lock()
	path, err := e.registry.Resolve(name)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	gen := e.cache.Begin(name)
	e.mu.Unlock()

	debug.Log(debug.CACHE, "load %q gen=%d", name, gen)
	started := time.Now()
	items, listErr := e.provider.ListDirectory(ctx, path)
	var entries []Entry
	if listErr == nil {
		entries = filesystemEntries(items, e.filter.Supported, e.probe)
	}
	elapsed := time.Since(started)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache.Generation(name) != gen {
		debug.Log(debug.CACHE, "discarding stale load %q gen=%d (latest %d)", name, gen, e.cache.Generation(name))
		e.metrics.ObserveLoad(metrics.ResultStale, elapsed)
		return nil
	}

	switch {
	case listErr == nil:
		e.cache.Apply(name, gen, entries)
		e.reconcileLocked(name)
		e.metrics.ObserveLoad(metrics.ResultOK, elapsed)
		debug.Log(debug.CACHE, "loaded %q gen=%d: %d entries", name, gen, len(entries))
		return nil

	case errors.Is(listErr, ErrNotFound):
		// Shown as an empty listing plus a notice.
		e.cache.Apply(name, gen, nil)
		e.cache.Fail(name, gen, listErr)
		e.reconcileLocked(name)
		e.metrics.ObserveLoad(metrics.ResultAbsent, elapsed)
		return listErr

	case errors.Is(listErr, ErrAccessDenied):
		e.cache.Fail(name, gen, listErr)
		e.metrics.ObserveLoad(metrics.ResultDenied, elapsed)
		return listErr

	default:
		if !errors.Is(listErr, ErrUnavailable) && ctx.Err() == nil {
			listErr = fmt.Errorf("%w: %v", ErrUnavailable, listErr)
		}
		e.cache.Fail(name, gen, listErr)
		e.metrics.ObserveLoad(metrics.ResultError, elapsed)
		return listErr
	}
}

// reconcileLocked drops selected ids that are no longer cached.
func (e *Engine) reconcileLocked(name string) {
	if dropped := e.selection.Reconcile(name, e.cache.IDs(name)); dropped > 0 {
		debug.Log(debug.CACHE, "reconcile %q: dropped %d selected id(s)", name, dropped)
	}
	if r, ok := e.currentRoute(); ok && r.Name == name {
		e.metrics.SetCurrentEntries(len(e.cache.Entries(name)))
	}
}

func (e *Engine) updateGauge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.currentRoute(); ok {
		e.metrics.SetCurrentEntries(len(e.cache.Entries(r.Name)))
	}
}

// ToggleSelect flips the selection of an entry of the current route.
func (e *Engine) ToggleSelect(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.currentRoute()
	if !ok {
		return false, ErrUnknownRoute
	}
	if _, ok := e.cache.Lookup(r.Name, id); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	return e.selection.Toggle(r.Name, id), nil
}

// SelectAll selects every entry of the current route.
func (e *Engine) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.currentRoute(); ok {
		e.selection.SelectAll(r.Name, e.cache.IDs(r.Name))
	}
}

// ClearSelection empties the current route's selection.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.currentRoute(); ok {
		e.selection.Clear(r.Name)
	}
}

// RemoveFromSelection unselects one id without touching the file.
func (e *Engine) RemoveFromSelection(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.currentRoute(); ok {
		e.selection.Remove(r.Name, id)
	}
}

// SelectedIDs returns the selection of a route.
func (e *Engine) SelectedIDs(route string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.SelectedIDs(route)
}

// IsBusy reports whether a file operation is running on route.
func (e *Engine) IsBusy(route string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy[route]
}

// Snapshot is an immutable view of the current state for rendering.
type Snapshot struct {
	Route         Route
	Entries       []Entry
	SelectedCount int
	CanGoBack     bool
	CanGoForward  bool
	CanGoToParent bool
	Breadcrumbs   []Crumb
	Routes        []Route
	Busy          bool
	Stale         bool
	Notice        error
}

// Snapshot returns copies so callers can't mutate engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, hasParent := e.history.Parent()
	s := Snapshot{
		CanGoBack:     e.history.CanGoBack(),
		CanGoForward:  e.history.CanGoForward(),
		CanGoToParent: hasParent,
		Breadcrumbs:   Breadcrumbs(e.history.Current()),
		Routes:        e.registry.Routes(),
	}
	if r, ok := e.currentRoute(); ok {
		s.Route = r
		s.Entries = e.entriesLocked(r.Name)
		s.SelectedCount = e.selection.Count(r.Name)
		s.Busy = e.busy[r.Name]
		s.Stale = e.cache.IsStale(r.Name)
		s.Notice = e.cache.LastError(r.Name)
	}
	return s
}

func absPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Abs(path)
}
