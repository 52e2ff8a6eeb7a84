package nav

import (
	"context"
	"path/filepath"
	"sync"
)

type fakeProvider struct {
	mu        sync.Mutex
	dirs      map[string][]DirItem
	listErrs  map[string]error
	listFn    func(ctx context.Context, path string) ([]DirItem, error)
	locations []Location

	trashCalls [][]string
	trashErr   error
	trashFail  map[string]bool

	copyCalls []copyCall
	copyErr   error

	mkdirErr error
	revealed []string
}

type copyCall struct {
	paths []string
	dest  string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		dirs:      make(map[string][]DirItem),
		listErrs:  make(map[string]error),
		trashFail: make(map[string]bool),
	}
}

func (p *fakeProvider) addFiles(dir string, names ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.dirs[dir]; !ok {
		p.dirs[dir] = nil
	}
	for _, n := range names {
		p.dirs[dir] = append(p.dirs[dir], DirItem{Name: n, Path: filepath.Join(dir, n)})
	}
}

func (p *fakeProvider) ListDirectory(ctx context.Context, path string) ([]DirItem, error) {
	p.mu.Lock()
	fn := p.listFn
	p.mu.Unlock()
	if fn != nil {
		return fn(ctx, path)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.listErrs[path]; err != nil {
		return nil, err
	}
	items, ok := p.dirs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]DirItem(nil), items...), nil
}

func (p *fakeProvider) MoveToTrash(_ context.Context, paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trashCalls = append(p.trashCalls, append([]string(nil), paths...))
	if p.trashErr != nil {
		return p.trashErr
	}
	var failed []PathError
	for _, path := range paths {
		if p.trashFail[path] {
			failed = append(failed, PathError{Path: path, Err: ErrAccessDenied})
			continue
		}
		dir := filepath.Dir(path)
		kept := p.dirs[dir][:0]
		for _, item := range p.dirs[dir] {
			if item.Path != path {
				kept = append(kept, item)
			}
		}
		p.dirs[dir] = kept
	}
	if len(failed) > 0 {
		return &PartialFailureError{Failed: failed}
	}
	return nil
}

func (p *fakeProvider) CopyFiles(_ context.Context, paths []string, dest string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.copyCalls = append(p.copyCalls, copyCall{paths: append([]string(nil), paths...), dest: dest})
	if p.copyErr != nil {
		return p.copyErr
	}
	for _, path := range paths {
		name := filepath.Base(path)
		p.dirs[dest] = append(p.dirs[dest], DirItem{Name: name, Path: filepath.Join(dest, name)})
	}
	return nil
}

func (p *fakeProvider) CreateDirectory(_ context.Context, parent, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mkdirErr != nil {
		return "", p.mkdirErr
	}
	path := filepath.Join(parent, name)
	if _, ok := p.dirs[path]; ok {
		return "", ErrAlreadyExists
	}
	p.dirs[path] = nil
	return path, nil
}

func (p *fakeProvider) RevealInFileManager(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revealed = append(p.revealed, path)
	return nil
}

func (p *fakeProvider) DefaultLocations(context.Context) ([]Location, error) {
	return p.locations, nil
}

type fakeDialogs struct {
	confirm     bool
	confirmErr  error
	confirmAsks int
	lastPrompt  string
	choose      string
	chooseErr   error
}

func (d *fakeDialogs) ChooseDirectory(context.Context) (string, error) {
	return d.choose, d.chooseErr
}

func (d *fakeDialogs) Confirm(_ context.Context, prompt string) (bool, error) {
	d.confirmAsks++
	d.lastPrompt = prompt
	return d.confirm, d.confirmErr
}

func entryNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
