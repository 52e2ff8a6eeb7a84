package nav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrashScenario(t *testing.T) {
	e, p, d := newTestEngine(t, Options{ConfirmTrash: true})
	p.locations = []Location{{Name: "Downloads", Path: "/home/u/Downloads"}}
	p.addFiles("/home/u/Downloads", "a.png", "b.jpg")
	ctx := context.Background()
	require.NoError(t, e.Start(ctx))

	_, err := e.ToggleSelect("/home/u/Downloads/a.png")
	require.NoError(t, err)

	require.NoError(t, e.MoveToTrash(ctx, "Downloads", e.SelectedIDs("Downloads")))
	assert.Equal(t, 1, d.confirmAsks)
	assert.Equal(t, [][]string{{"/home/u/Downloads/a.png"}}, p.trashCalls)
	assert.Equal(t, []string{"b.jpg"}, entryNames(e.CurrentEntries()))
	assert.Empty(t, e.SelectedIDs("Downloads"))
	assert.False(t, e.Snapshot().Stale)
}

func TestTrashDeclined(t *testing.T) {
	e, p, d := newTestEngine(t, Options{ConfirmTrash: true})
	d.confirm = false
	p.addFiles("/r", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))
	e.SelectAll()

	require.NoError(t, e.MoveToTrash(ctx, "r", e.SelectedIDs("r")))
	assert.Empty(t, p.trashCalls)
	assert.Len(t, e.SelectedIDs("r"), 1)

	d.confirm, d.confirmErr = false, ErrCancelled
	require.NoError(t, e.MoveToTrash(ctx, "r", e.SelectedIDs("r")))
	assert.Empty(t, p.trashCalls)
}

func TestTrashEmptySelection(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png")
	require.NoError(t, e.NavigateTo(context.Background(), "/r"))
	assert.ErrorIs(t, e.MoveToTrash(context.Background(), "r", nil), ErrEmptySelection)
	assert.ErrorIs(t, e.MoveToTrash(context.Background(), "r", []string{"/r/ghost.png"}), ErrEmptySelection)
}

func TestTrashPartialFailureReloads(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png", "b.png", "c.png")
	p.trashFail["/r/b.png"] = true
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))
	e.SelectAll()

	err := e.MoveToTrash(ctx, "r", e.SelectedIDs("r"))
	assert.ErrorIs(t, err, ErrPartialFailure)
	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "/r/b.png", partial.Failed[0].Path)

	assert.Equal(t, []string{"b.png"}, entryNames(e.CurrentEntries()))
	assert.Equal(t, []string{"/r/b.png"}, e.SelectedIDs("r"), "failed items stay selected")
}

func TestTrashAccessDeniedLeavesState(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png")
	p.trashErr = ErrAccessDenied
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))
	e.SelectAll()

	assert.ErrorIs(t, e.MoveToTrash(ctx, "r", e.SelectedIDs("r")), ErrAccessDenied)
	assert.Len(t, e.SelectedIDs("r"), 1)
	assert.False(t, e.Snapshot().Stale)
	assert.False(t, e.IsBusy("r"))
}

func TestTrashEphemeralOnlyDropsFromMemory(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))

	added, err := e.Attach("r", []string{"/elsewhere/clip.png", "/elsewhere/doc.pdf"})
	require.NoError(t, err)
	require.Len(t, added, 1)

	_, err = e.ToggleSelect(added[0].ID)
	require.NoError(t, err)
	require.NoError(t, e.MoveToTrash(ctx, "r", e.SelectedIDs("r")))

	assert.Empty(t, p.trashCalls, "ephemeral items are never sent to the trash")
	assert.Equal(t, []string{"a.png"}, entryNames(e.CurrentEntries()))
	assert.Empty(t, e.SelectedIDs("r"))
}

func TestTrashDeniedKeepsAttachedEntries(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))
	_, err := e.Attach("r", []string{"/elsewhere/clip.png"})
	require.NoError(t, err)
	e.SelectAll()

	p.trashErr = ErrAccessDenied
	assert.ErrorIs(t, e.MoveToTrash(ctx, "r", e.SelectedIDs("r")), ErrAccessDenied)
	assert.Equal(t, []string{"a.png", "clip.png"}, entryNames(e.CurrentEntries()))
	assert.Len(t, e.SelectedIDs("r"), 2)

	p.trashErr = nil
	require.NoError(t, e.MoveToTrash(ctx, "r", e.SelectedIDs("r")))
	assert.Equal(t, [][]string{{"/r/a.png"}, {"/r/a.png"}}, p.trashCalls)
	assert.Empty(t, e.CurrentEntries())
	assert.Empty(t, e.SelectedIDs("r"))
}

func TestTrashPromptNamesTrash(t *testing.T) {
	e, p, d := newTestEngine(t, Options{ConfirmTrash: true})
	p.addFiles("/r", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))
	d.confirm = false

	require.NoError(t, e.MoveToTrash(ctx, "r", []string{"/r/a.png"}))
	assert.Equal(t, "Move 1 item(s) to the trash?", d.lastPrompt)

	e.opts.TrashName = "Recycle Bin"
	require.NoError(t, e.MoveToTrash(ctx, "r", []string{"/r/a.png"}))
	assert.Equal(t, "Move 1 item(s) to the Recycle Bin?", d.lastPrompt)
}

func TestTrashBusyGuard(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))

	e.mu.Lock()
	e.busy["r"] = true
	e.mu.Unlock()
	assert.ErrorIs(t, e.MoveToTrash(ctx, "r", []string{"/r/a.png"}), ErrBusy)
	assert.ErrorIs(t, e.CopyTo(ctx, "r", []string{"/r/a.png"}, "/dst"), ErrBusy)
	_, err := e.CreateFolder(ctx, "r", "new")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, p.trashCalls)
}

func TestTrashMarksRouteBusy(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{ConfirmTrash: true})
	p.addFiles("/r", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))

	e.dialogs = confirmFunc(func() bool {
		assert.True(t, e.IsBusy("r"), "route is busy while the operation is in flight")
		return true
	})
	require.NoError(t, e.MoveToTrash(ctx, "r", []string{"/r/a.png"}))
	assert.False(t, e.IsBusy("r"))
}

type confirmFunc func() bool

func (f confirmFunc) ChooseDirectory(context.Context) (string, error) { return "", ErrCancelled }
func (f confirmFunc) Confirm(context.Context, string) (bool, error)   { return f(), nil }

func TestCopyToChosenDestination(t *testing.T) {
	e, p, d := newTestEngine(t, Options{})
	p.addFiles("/src", "a.png", "b.png")
	p.addFiles("/dst", "old.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/dst"))
	require.NoError(t, e.NavigateTo(ctx, "/src"))
	before := snapshotHistory(e)

	_, err := e.ToggleSelect("/src/a.png")
	require.NoError(t, err)
	d.choose = "/dst"
	require.NoError(t, e.CopyTo(ctx, "src", e.SelectedIDs("src"), ""))

	require.Len(t, p.copyCalls, 1)
	assert.Equal(t, copyCall{paths: []string{"/src/a.png"}, dest: "/dst"}, p.copyCalls[0])
	assert.Equal(t, []string{"a.png", "b.png"}, entryNames(e.CurrentEntries()), "source route is untouched")
	assert.Empty(t, e.SelectedIDs("src"))
	assert.Equal(t, before, snapshotHistory(e), "copy does not touch history")

	e.mu.Lock()
	assert.True(t, e.cache.IsStale("dst"), "destination route is invalidated")
	e.mu.Unlock()
}

func TestCopyToCancelled(t *testing.T) {
	e, p, d := newTestEngine(t, Options{})
	p.addFiles("/src", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/src"))
	e.SelectAll()

	d.chooseErr = ErrCancelled
	require.NoError(t, e.CopyTo(ctx, "src", e.SelectedIDs("src"), ""))
	assert.Empty(t, p.copyCalls)
	assert.Len(t, e.SelectedIDs("src"), 1)
}

func TestCopyToFailure(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/src", "a.png")
	p.copyErr = ErrAccessDenied
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/src"))
	e.SelectAll()

	assert.ErrorIs(t, e.CopyTo(ctx, "src", e.SelectedIDs("src"), "/dst"), ErrAccessDenied)
	assert.Len(t, e.SelectedIDs("src"), 1)
}

func TestCopyToPartialFailure(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/src", "a.png", "b.png")
	p.addFiles("/dst")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/dst"))
	require.NoError(t, e.NavigateTo(ctx, "/src"))
	e.SelectAll()

	p.copyErr = &PartialFailureError{Failed: []PathError{{Path: "/src/b.png", Err: ErrAccessDenied}}}
	err := e.CopyTo(ctx, "src", e.SelectedIDs("src"), "/dst")
	assert.ErrorIs(t, err, ErrPartialFailure)
	var partial *PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "/src/b.png", partial.Failed[0].Path)

	assert.Equal(t, []string{"/src/b.png"}, e.SelectedIDs("src"), "failed items stay selected")
	assert.False(t, e.Snapshot().Stale, "source route is not invalidated")
	assert.False(t, e.IsBusy("src"))

	e.mu.Lock()
	assert.True(t, e.cache.IsStale("dst"), "destination route is invalidated")
	e.mu.Unlock()
}

func TestCopyPersistsAttachedItems(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))

	added, err := e.Attach("r", []string{"/elsewhere/clip.png"})
	require.NoError(t, err)
	require.NoError(t, e.CopyTo(ctx, "r", []string{added[0].ID}, "/r"))

	entries := e.CurrentEntries()
	assert.Equal(t, []string{"a.png", "clip.png"}, entryNames(entries))
	for _, entry := range entries {
		assert.Equal(t, FromFilesystem, entry.Origin)
	}
}

func TestCreateFolder(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/home/u/Pictures", "a.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/home/u/Pictures"))

	r, err := e.CreateFolder(ctx, "Pictures", "  Trips  ")
	require.NoError(t, err)
	assert.Equal(t, Route{Name: "Trips", Path: "/home/u/Pictures/Trips"}, r)

	cur, _ := e.CurrentRoute()
	assert.Equal(t, "Pictures", cur.Name, "creating a folder does not navigate")
	assert.Empty(t, e.Entries("Trips"))

	require.NoError(t, e.NavigateToRoute(ctx, "Trips"))
	cur, _ = e.CurrentRoute()
	assert.Equal(t, "/home/u/Pictures/Trips", cur.Path)
}

func TestCreateFolderErrors(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png")
	p.addFiles("/r/taken")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))
	routesBefore := len(e.Routes())

	for _, name := range []string{"", "   ", ".", "..", "a/b"} {
		_, err := e.CreateFolder(ctx, "r", name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}

	_, err := e.CreateFolder(ctx, "r", "taken")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Len(t, e.Routes(), routesBefore)

	_, err = e.CreateFolder(ctx, "nope", "x")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestReveal(t *testing.T) {
	e, p, _ := newTestEngine(t, Options{})
	p.addFiles("/r", "a.png", "b.png")
	ctx := context.Background()
	require.NoError(t, e.NavigateTo(ctx, "/r"))

	assert.ErrorIs(t, e.Reveal(ctx, "r", ""), ErrEmptySelection)

	_, err := e.ToggleSelect("/r/b.png")
	require.NoError(t, err)
	require.NoError(t, e.Reveal(ctx, "r", ""))
	require.NoError(t, e.Reveal(ctx, "r", "/r/a.png"))
	assert.Equal(t, []string{"/r/b.png", "/r/a.png"}, p.revealed)

	assert.ErrorIs(t, e.Reveal(ctx, "r", "/r/zzz.png"), ErrUnknownEntry)
}
