package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/justyntemme/picroute/internal/nav"
)

// renderSnapshot prints the header, breadcrumbs and numbered entries.
func renderSnapshot(w io.Writer, snap nav.Snapshot) {
	crumbs := make([]string, len(snap.Breadcrumbs))
	for i, c := range snap.Breadcrumbs {
		crumbs[i] = c.Name
	}
	fmt.Fprintf(w, "[%s] %s\n", snap.Route.Name, strings.Join(crumbs, " > "))

	var flags []string
	if snap.CanGoBack {
		flags = append(flags, "back")
	}
	if snap.CanGoForward {
		flags = append(flags, "fwd")
	}
	if snap.CanGoToParent {
		flags = append(flags, "up")
	}
	if snap.Stale {
		flags = append(flags, "stale")
	}
	if snap.Busy {
		flags = append(flags, "busy")
	}
	fmt.Fprintf(w, "%d image(s), %d selected  (%s)\n", len(snap.Entries), snap.SelectedCount, strings.Join(flags, " "))
	if snap.Notice != nil {
		fmt.Fprintf(w, "! %v\n", snap.Notice)
	}
	renderEntries(w, snap.Entries, time.Now())
}

func renderEntries(w io.Writer, entries []nav.Entry, now time.Time) {
	idx := make([]int, len(entries))
	for i := range entries {
		idx[i] = i
	}
	renderRows(w, entries, idx, now)
}

// renderRows prints entries[i] for each i in idx, numbered by position in
// entries so the numbers stay valid for sel and friends.
func renderRows(w io.Writer, entries []nav.Entry, idx []int, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, i := range idx {
		e := entries[i]
		mark := " "
		if e.Selected {
			mark = "*"
		}
		size := ""
		if e.Origin == nav.FromFilesystem {
			size = humanize.Bytes(uint64(e.Size))
		}
		dims := ""
		if e.Width > 0 {
			dims = fmt.Sprintf("%dx%d", e.Width, e.Height)
		}
		age := ""
		if !e.ModTime.IsZero() {
			age = humanize.RelTime(e.ModTime, now, "ago", "from now")
		}
		name := e.Name
		if e.Origin == nav.Ephemeral {
			name += " (attached)"
		}
		fmt.Fprintf(tw, "%s%3d\t%s\t%s\t%s\t%s\n", mark, i+1, name, size, dims, age)
	}
	tw.Flush()
}

func renderRoutes(w io.Writer, routes []nav.Route, current string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range routes {
		mark := " "
		if r.Name == current {
			mark = ">"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", mark, r.Name, r.Path)
	}
	tw.Flush()
}
