package cli

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/justyntemme/picroute/internal/config"
	"github.com/justyntemme/picroute/internal/debug"
	"github.com/justyntemme/picroute/internal/fs"
	"github.com/justyntemme/picroute/internal/metrics"
	"github.com/justyntemme/picroute/internal/nav"
	"github.com/justyntemme/picroute/internal/store"
	"github.com/justyntemme/picroute/internal/trash"
)

// session wires the engine to the local filesystem, the favorites database
// and a private metrics registry.
type session struct {
	cfg      config.Config
	db       *store.DB
	registry *prometheus.Registry
	engine   *nav.Engine
}

var defaultDBPath = store.DefaultPath

// openSession builds an engine. A database that cannot be opened is reported
// and the session continues without favorites. A non-empty start must name a
// route or directory; it overrides the configured and remembered locations.
func openSession(ctx context.Context, cfg config.Config, dialogs nav.Dialogs, start string) *session {
	s := &session{cfg: cfg, registry: prometheus.NewRegistry()}

	db, err := store.Open(ctx, dbPath(cfg))
	if err != nil {
		logger.Warn().Err(err).Msg("favorites database unavailable")
	} else {
		s.db = db
	}

	provider := fs.NewSystem(fs.Options{
		Favorites:      s.locations(ctx),
		IncludeVolumes: cfg.Behavior.ShowVolumes,
		ShowHidden:     cfg.Media.ShowHidden,
	})

	opts := nav.Options{
		Extensions:      cfg.Media.Extensions,
		ProbeDimensions: cfg.Media.ProbeDimensions,
		ConfirmTrash:    cfg.Behavior.ConfirmTrash,
		MaxHistory:      cfg.Behavior.MaxHistory,
		StartLocation:   start,
		StrictStart:     start != "",
		TrashName:       trash.DisplayName(),
		Metrics:         metrics.New(s.registry),
	}
	if start == "" {
		opts.StartLocation = s.startLocation(ctx)
	}
	s.engine = nav.New(provider, dialogs, opts)
	return s
}

// locations merges config locations with database favorites.
func (s *session) locations(ctx context.Context) []nav.Location {
	var locs []nav.Location
	for _, l := range s.cfg.Locations {
		locs = append(locs, nav.Location{Name: l.Name, Path: l.Path})
	}
	if s.db == nil {
		return locs
	}
	favs, err := s.db.Favorites(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("reading favorites")
		return locs
	}
	for _, f := range favs {
		locs = append(locs, nav.Location{Name: f.Name, Path: f.Path})
	}
	return locs
}

func (s *session) startLocation(ctx context.Context) string {
	if !s.cfg.Behavior.RestoreLastPath || s.db == nil {
		return s.cfg.Behavior.StartLocation
	}
	last, ok, err := s.db.Setting(ctx, store.SettingLastPath)
	if err != nil || !ok {
		return s.cfg.Behavior.StartLocation
	}
	if info, err := os.Stat(last); err != nil || !info.IsDir() {
		debug.Log(debug.CLI, "last path %q gone, using %q", last, s.cfg.Behavior.StartLocation)
		return s.cfg.Behavior.StartLocation
	}
	return last
}

// Close remembers the current route for the next start and closes the
// database.
func (s *session) Close(ctx context.Context) {
	if s.db == nil {
		return
	}
	if r, ok := s.engine.CurrentRoute(); ok {
		if err := s.db.SetSetting(ctx, store.SettingLastPath, r.Path); err != nil {
			debug.Log(debug.CLI, "saving last path: %v", err)
		}
	}
	s.db.Close()
}
