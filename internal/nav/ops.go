package nav

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/justyntemme/picroute/internal/debug"
	"github.com/justyntemme/picroute/internal/metrics"
)

// Operation names used in logs and metrics.
const (
	opTrash  = "trash"
	opCopy   = "copy"
	opMkdir  = "mkdir"
	opReveal = "reveal"
)

// beginOp marks route busy. Must be called with e.mu held.
func (e *Engine) beginOp(route, op string) error {
	if e.busy[route] {
		debug.Log(debug.OPS, "%s on %q rejected: busy", op, route)
		return ErrBusy
	}
	e.busy[route] = true
	return nil
}

func (e *Engine) endOp(route string) {
	e.mu.Lock()
	delete(e.busy, route)
	e.mu.Unlock()
}

// target is a resolved entry an operation acts on.
type target struct {
	id     string
	path   string
	origin Origin
}

// resolveTargets must be called with e.mu held. Unknown ids are skipped.
func (e *Engine) resolveTargets(route string, ids []string) []target {
	targets := make([]target, 0, len(ids))
	for _, id := range ids {
		entry, ok := e.cache.Lookup(route, id)
		if !ok {
			debug.Log(debug.OPS, "skipping unknown id %q on %q", id, route)
			continue
		}
		targets = append(targets, target{id: entry.ID, path: entry.Path, origin: entry.Origin})
	}
	return targets
}

// MoveToTrash sends the given entries of route to the trash. Ephemeral
// entries are only dropped from memory. On full or partial success the route
// is reloaded so it shows what is actually on disk.
func (e *Engine) MoveToTrash(ctx context.Context, route string, ids []string) error {
	if len(ids) == 0 {
		return ErrEmptySelection
	}

	e.mu.Lock()
	if _, err := e.registry.Resolve(route); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.beginOp(route, opTrash); err != nil {
		e.mu.Unlock()
		return err
	}
	targets := e.resolveTargets(route, ids)
	e.mu.Unlock()
	defer e.endOp(route)

	if len(targets) == 0 {
		return ErrEmptySelection
	}

	if e.opts.ConfirmTrash && e.dialogs != nil {
		ok, err := e.dialogs.Confirm(ctx, fmt.Sprintf("Move %d item(s) to the %s?", len(targets), e.trashName()))
		if errors.Is(err, ErrCancelled) || (err == nil && !ok) {
			debug.Log(debug.OPS, "trash on %q declined", route)
			return nil
		}
		if err != nil {
			return err
		}
	}

	var paths, fsIDs, ephemeralIDs []string
	for _, t := range targets {
		if t.origin == Ephemeral {
			ephemeralIDs = append(ephemeralIDs, t.id)
			continue
		}
		paths = append(paths, t.path)
		fsIDs = append(fsIDs, t.id)
	}

	if len(paths) == 0 {
		e.dropEphemeral(route, ephemeralIDs)
		return nil
	}

	debug.Log(debug.OPS, "trash %d path(s) from %q", len(paths), route)
	err := e.provider.MoveToTrash(ctx, paths)

	var partial *PartialFailureError
	switch {
	case err == nil:
		e.dropEphemeral(route, ephemeralIDs)
		e.mu.Lock()
		e.cache.Invalidate(route)
		e.selection.RemoveAll(route, fsIDs)
		e.mu.Unlock()
		e.metrics.Operation(opTrash, metrics.ResultOK)
		e.reloadAfter(ctx, route, opTrash)
		return nil

	case errors.As(err, &partial):
		failed := partial.FailedPaths()
		var done []string
		for i, p := range paths {
			if !failed[p] {
				done = append(done, fsIDs[i])
			}
		}
		e.dropEphemeral(route, ephemeralIDs)
		e.mu.Lock()
		e.cache.Invalidate(route)
		e.selection.RemoveAll(route, done)
		e.mu.Unlock()
		e.metrics.Operation(opTrash, "partial")
		e.reloadAfter(ctx, route, opTrash)
		return err

	default:
		e.metrics.Operation(opTrash, metrics.ResultError)
		return err
	}
}

// dropEphemeral forgets attached entries once a trash request went through.
func (e *Engine) dropEphemeral(route string, ids []string) {
	if len(ids) == 0 {
		return
	}
	e.mu.Lock()
	e.cache.RemoveEphemeral(route, ids)
	e.selection.RemoveAll(route, ids)
	e.mu.Unlock()
}

func (e *Engine) trashName() string {
	if e.opts.TrashName != "" {
		return e.opts.TrashName
	}
	return "trash"
}

// reloadAfter reloads route after a mutation. Failures are kept as the
// route's notice rather than returned.
func (e *Engine) reloadAfter(ctx context.Context, route, op string) {
	if err := e.load(ctx, route); err != nil {
		debug.Log(debug.OPS, "reload %q after %s: %v", route, op, err)
	}
}

// CopyTo copies the given entries of route into destination. An empty
// destination asks the user through Dialogs; cancelling is a no-op. The source
// route and history are untouched.
func (e *Engine) CopyTo(ctx context.Context, route string, ids []string, destination string) error {
	if len(ids) == 0 {
		return ErrEmptySelection
	}

	e.mu.Lock()
	routePath, err := e.registry.Resolve(route)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if err := e.beginOp(route, opCopy); err != nil {
		e.mu.Unlock()
		return err
	}
	targets := e.resolveTargets(route, ids)
	e.mu.Unlock()
	defer e.endOp(route)

	if len(targets) == 0 {
		return ErrEmptySelection
	}

	if destination == "" {
		if e.dialogs == nil {
			debug.Log(debug.OPS, "copy from %q: no destination dialog", route)
			return nil
		}
		destination, err = e.dialogs.ChooseDirectory(ctx)
		if errors.Is(err, ErrCancelled) || (err == nil && destination == "") {
			debug.Log(debug.OPS, "copy from %q: destination cancelled", route)
			return nil
		}
		if err != nil {
			return err
		}
	}
	destination = filepath.Clean(destination)

	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.path
	}

	debug.Log(debug.OPS, "copy %d path(s) from %q to %q", len(paths), route, destination)
	err = e.provider.CopyFiles(ctx, paths, destination)

	var partial *PartialFailureError
	var failed map[string]bool
	switch {
	case err == nil:
		e.metrics.Operation(opCopy, metrics.ResultOK)
	case errors.As(err, &partial):
		failed = partial.FailedPaths()
		e.metrics.Operation(opCopy, "partial")
	default:
		e.metrics.Operation(opCopy, metrics.ResultError)
		return err
	}

	var done, persisted []string
	for _, t := range targets {
		if failed[t.path] {
			continue
		}
		done = append(done, t.id)
		if t.origin == Ephemeral && destination == routePath {
			persisted = append(persisted, t.id)
		}
	}

	e.mu.Lock()
	e.selection.RemoveAll(route, done)
	if len(persisted) > 0 {
		// Attached items now exist on disk; the reload brings them back as files.
		e.cache.RemoveEphemeral(route, persisted)
		e.cache.Invalidate(route)
	}
	destRoute, destKnown := e.registry.NameFor(destination)
	if destKnown {
		e.cache.Invalidate(destRoute)
	}
	current, _ := e.currentRoute()
	e.mu.Unlock()

	if destKnown && destRoute == current.Name {
		e.reloadAfter(ctx, destRoute, opCopy)
	}
	return err
}

// CreateFolder creates name under route's directory and registers the new
// folder as a route with an empty cache. It does not navigate there.
func (e *Engine) CreateFolder(ctx context.Context, route, name string) (Route, error) {
	name = strings.TrimSpace(name)
	if err := validateFolderName(name); err != nil {
		return Route{}, err
	}

	e.mu.Lock()
	parent, err := e.registry.Resolve(route)
	if err != nil {
		e.mu.Unlock()
		return Route{}, err
	}
	if err := e.beginOp(route, opMkdir); err != nil {
		e.mu.Unlock()
		return Route{}, err
	}
	e.mu.Unlock()
	defer e.endOp(route)

	newPath, err := e.provider.CreateDirectory(ctx, parent, name)
	if err != nil {
		e.metrics.Operation(opMkdir, metrics.ResultError)
		return Route{}, err
	}

	e.mu.Lock()
	newName := e.registry.RegisterPath(newPath)
	e.cache.Ensure(newName)
	e.metrics.SetRoutes(len(e.registry.Routes()))
	e.mu.Unlock()

	e.metrics.Operation(opMkdir, metrics.ResultOK)
	debug.Log(debug.OPS, "created %q as route %q", newPath, newName)
	return Route{Name: newName, Path: filepath.Clean(newPath)}, nil
}

func validateFolderName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Reveal shows an entry in the system file manager. With an empty id the
// first selected entry is used. Provider failures are only logged.
func (e *Engine) Reveal(ctx context.Context, route, id string) error {
	e.mu.Lock()
	if id == "" {
		selected := e.selection.SelectedIDs(route)
		if len(selected) == 0 {
			e.mu.Unlock()
			return ErrEmptySelection
		}
		id = selected[0]
	}
	entry, ok := e.cache.Lookup(route, id)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}

	if err := e.provider.RevealInFileManager(entry.Path); err != nil {
		debug.Log(debug.OPS, "reveal %q: %v", entry.Path, err)
		e.metrics.Operation(opReveal, metrics.ResultError)
		return nil
	}
	e.metrics.Operation(opReveal, metrics.ResultOK)
	return nil
}

// Attach adds files from elsewhere to route as ephemeral entries. They are
// kept across reloads until trashed or copied into the route's directory.
// Unsupported file types are skipped.
func (e *Engine) Attach(route string, sources []string) ([]Entry, error) {
	items := make([]DirItem, 0, len(sources))
	for _, src := range sources {
		if !e.filter.Supported(src) {
			debug.Log(debug.OPS, "attach: skipping unsupported %q", src)
			continue
		}
		p, err := absPath(src)
		if err != nil {
			return nil, err
		}
		items = append(items, DirItem{Name: filepath.Base(p), Path: p})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.registry.Resolve(route); err != nil {
		return nil, err
	}
	added := e.cache.AddEphemeral(route, items)
	if r, ok := e.currentRoute(); ok && r.Name == route {
		e.metrics.SetCurrentEntries(len(e.cache.Entries(route)))
	}
	return added, nil
}
