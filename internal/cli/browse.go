package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/justyntemme/picroute/internal/debug"
	"github.com/justyntemme/picroute/internal/filter"
	"github.com/justyntemme/picroute/internal/nav"
	"github.com/justyntemme/picroute/internal/trash"
)

func newBrowseCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "browse [location]",
		Short: "Interactive browser (type 'help' for commands)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, cfg := loadConfig()
			start := ""
			if len(args) == 1 {
				start = locationArg(args[0])
			}

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			s := openSession(ctx, cfg, p, start)
			defer s.Close(context.WithoutCancel(ctx))

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Warn().Err(err).Str("addr", metricsAddr).Msg("metrics server stopped")
					}
				}()
				defer srv.Close()
			}

			r := &repl{s: s, p: p, out: cmd.OutOrStdout()}
			return r.run(ctx)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

var trashAvailable = trash.IsAvailable

type repl struct {
	s   *session
	p   *prompter
	out io.Writer
}

type command struct {
	usage string
	run   func(r *repl, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ls":      {"ls                 show the current folder", (*repl).cmdList},
		"cd":      {"cd <route|path>    open a route or folder", (*repl).cmdCd},
		"back":    {"back               go back", (*repl).cmdBack},
		"fwd":     {"fwd                go forward", (*repl).cmdForward},
		"up":      {"up                 open the parent folder", (*repl).cmdUp},
		"refresh": {"refresh            reload the current folder", (*repl).cmdRefresh},
		"routes":  {"routes             list known routes", (*repl).cmdRoutes},
		"sel":     {"sel <n>...         toggle selection of entries", (*repl).cmdSelect},
		"unsel":   {"unsel <n>...       drop entries from the selection", (*repl).cmdUnselect},
		"all":     {"all                select everything", (*repl).cmdAll},
		"none":    {"none               clear the selection", (*repl).cmdNone},
		"trash":   {"trash              move the selection to the trash", (*repl).cmdTrash},
		"cp":      {"cp [dir]           copy the selection", (*repl).cmdCopy},
		"mkdir":   {"mkdir <name>       create a folder here", (*repl).cmdMkdir},
		"reveal":  {"reveal [n]         show an entry in the file manager", (*repl).cmdReveal},
		"attach":  {"attach <file>...   add files from elsewhere", (*repl).cmdAttach},
		"fav":     {"fav [name]         pin the current folder", (*repl).cmdFav},
		"find":    {"find <query>       list entries matching a query", (*repl).cmdFind},
		"pick":    {"pick <query>       select entries matching a query", (*repl).cmdPick},
		"stats":   {"stats              show engine counters", (*repl).cmdStats},
		"help":    {"help               this text", (*repl).cmdHelp},
	}
}

func (r *repl) run(ctx context.Context) error {
	if err := r.s.engine.Start(ctx); err != nil {
		if errors.Is(err, nav.ErrUnknownRoute) {
			return err
		}
		r.report(err)
	}
	renderSnapshot(r.out, r.s.engine.Snapshot())

	for {
		fmt.Fprint(r.out, "> ")
		line, err := r.p.readLine()
		if err == io.EOF {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" || fields[0] == "q" {
			return nil
		}
		c, ok := commands[fields[0]]
		if !ok {
			fmt.Fprintf(r.out, "unknown command %q, try 'help'\n", fields[0])
			continue
		}
		debug.Log(debug.CLI, "repl: %q", line)
		if err := c.run(r, ctx, fields[1:]); err != nil {
			r.report(err)
		}
	}
}

// report prints an engine error in user terms.
func (r *repl) report(err error) {
	var partial *nav.PartialFailureError
	switch {
	case errors.As(err, &partial):
		fmt.Fprintf(r.out, "%d item(s) failed:\n", len(partial.Failed))
		for _, f := range partial.Failed {
			fmt.Fprintf(r.out, "  %s: %v\n", f.Path, f.Err)
		}
	case errors.Is(err, nav.ErrBusy):
		fmt.Fprintln(r.out, "busy: wait for the running operation")
	default:
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
}

func (r *repl) show(err error) error {
	renderSnapshot(r.out, r.s.engine.Snapshot())
	return err
}

func (r *repl) currentRoute() (nav.Route, error) {
	route, ok := r.s.engine.CurrentRoute()
	if !ok {
		return nav.Route{}, nav.ErrUnknownRoute
	}
	return route, nil
}

// entryIDs maps 1-based entry numbers to ids.
func (r *repl) entryIDs(args []string) ([]string, error) {
	entries := r.s.engine.CurrentEntries()
	ids := make([]string, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > len(entries) {
			return nil, fmt.Errorf("no entry %q", a)
		}
		ids = append(ids, entries[n-1].ID)
	}
	return ids, nil
}

func (r *repl) cmdList(ctx context.Context, _ []string) error { return r.show(nil) }

func (r *repl) cmdCd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: cd <route|path>")
	}
	target := strings.Join(args, " ")
	if _, err := r.s.engine.Resolve(target); err == nil {
		return r.show(r.s.engine.NavigateToRoute(ctx, target))
	}
	return r.show(r.s.engine.NavigateTo(ctx, expandHome(target)))
}

func (r *repl) cmdBack(ctx context.Context, _ []string) error {
	return r.show(r.s.engine.GoBack(ctx))
}

func (r *repl) cmdForward(ctx context.Context, _ []string) error {
	return r.show(r.s.engine.GoForward(ctx))
}

func (r *repl) cmdUp(ctx context.Context, _ []string) error {
	return r.show(r.s.engine.GoToParent(ctx))
}

func (r *repl) cmdRefresh(ctx context.Context, _ []string) error {
	return r.show(r.s.engine.Refresh(ctx))
}

func (r *repl) cmdRoutes(ctx context.Context, _ []string) error {
	current, _ := r.s.engine.CurrentRoute()
	renderRoutes(r.out, r.s.engine.Routes(), current.Name)
	return nil
}

func (r *repl) cmdSelect(ctx context.Context, args []string) error {
	ids, err := r.entryIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := r.s.engine.ToggleSelect(id); err != nil {
			return err
		}
	}
	return r.show(nil)
}

func (r *repl) cmdUnselect(ctx context.Context, args []string) error {
	ids, err := r.entryIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		r.s.engine.RemoveFromSelection(id)
	}
	return r.show(nil)
}

func (r *repl) cmdAll(ctx context.Context, _ []string) error {
	r.s.engine.SelectAll()
	return r.show(nil)
}

func (r *repl) cmdNone(ctx context.Context, _ []string) error {
	r.s.engine.ClearSelection()
	return r.show(nil)
}

func (r *repl) cmdTrash(ctx context.Context, _ []string) error {
	route, err := r.currentRoute()
	if err != nil {
		return err
	}
	if !trashAvailable() {
		return fmt.Errorf("the %s is not available here", trash.DisplayName())
	}
	debug.Log(debug.CLI, "trash at %s", trash.Path())
	return r.show(r.s.engine.MoveToTrash(ctx, route.Name, r.s.engine.SelectedIDs(route.Name)))
}

func (r *repl) cmdCopy(ctx context.Context, args []string) error {
	route, err := r.currentRoute()
	if err != nil {
		return err
	}
	dest := ""
	if len(args) > 0 {
		target := strings.Join(args, " ")
		if path, err := r.s.engine.Resolve(target); err == nil {
			dest = path
		} else {
			dest = expandHome(target)
		}
	}
	return r.show(r.s.engine.CopyTo(ctx, route.Name, r.s.engine.SelectedIDs(route.Name), dest))
}

func (r *repl) cmdMkdir(ctx context.Context, args []string) error {
	route, err := r.currentRoute()
	if err != nil {
		return err
	}
	created, err := r.s.engine.CreateFolder(ctx, route.Name, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "created %s as route %q\n", created.Path, created.Name)
	return nil
}

func (r *repl) cmdReveal(ctx context.Context, args []string) error {
	route, err := r.currentRoute()
	if err != nil {
		return err
	}
	id := ""
	if len(args) > 0 {
		ids, err := r.entryIDs(args[:1])
		if err != nil {
			return err
		}
		id = ids[0]
	}
	return r.s.engine.Reveal(ctx, route.Name, id)
}

func (r *repl) cmdAttach(ctx context.Context, args []string) error {
	route, err := r.currentRoute()
	if err != nil {
		return err
	}
	sources := make([]string, len(args))
	for i, a := range args {
		sources[i] = expandHome(a)
	}
	added, err := r.s.engine.Attach(route.Name, sources)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "attached %d of %d file(s)\n", len(added), len(args))
	return r.show(nil)
}

func (r *repl) cmdFav(ctx context.Context, args []string) error {
	if r.s.db == nil {
		return errors.New("favorites database unavailable")
	}
	route, err := r.currentRoute()
	if err != nil {
		return err
	}
	name := route.Name
	if len(args) > 0 {
		name = strings.Join(args, " ")
	}
	if err := r.s.db.AddFavorite(ctx, name, route.Path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "pinned %s as %q\n", route.Path, name)
	return nil
}

// match parses args as a filter query and applies it to the current entries.
func (r *repl) match(args []string) ([]nav.Entry, []int, error) {
	if len(args) == 0 {
		return nil, nil, errors.New("usage: find <query>, e.g. find ext:png size:>1MB")
	}
	q, err := filter.Parse(strings.Join(args, " "), time.Now())
	if err != nil {
		return nil, nil, err
	}
	entries := r.s.engine.CurrentEntries()
	return entries, q.Apply(entries), nil
}

func (r *repl) cmdFind(ctx context.Context, args []string) error {
	entries, idx, err := r.match(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%d of %d match\n", len(idx), len(entries))
	renderRows(r.out, entries, idx, time.Now())
	return nil
}

func (r *repl) cmdPick(ctx context.Context, args []string) error {
	entries, idx, err := r.match(args)
	if err != nil {
		return err
	}
	for _, i := range idx {
		if entries[i].Selected {
			continue
		}
		if _, err := r.s.engine.ToggleSelect(entries[i].ID); err != nil {
			return err
		}
	}
	return r.show(nil)
}

func (r *repl) cmdStats(ctx context.Context, _ []string) error {
	families, err := r.s.registry.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			fmt.Fprintf(r.out, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}

func (r *repl) cmdHelp(ctx context.Context, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(r.out, "  "+commands[name].usage)
	}
	fmt.Fprintln(r.out, "  quit               leave")
	return nil
}

// locationArg makes an existing directory argument absolute and leaves
// anything else to be resolved as a location name.
func locationArg(arg string) string {
	arg = expandHome(arg)
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		if abs, err := filepath.Abs(arg); err == nil {
			return abs
		}
	}
	return arg
}

// expandHome turns a leading "~" into the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
