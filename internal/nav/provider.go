package nav

import "context"

// Provider is the filesystem capability the engine consumes. Implementations
// map their native errors onto ErrNotFound, ErrAccessDenied, ErrAlreadyExists
// and *PartialFailureError.
type Provider interface {
	ListDirectory(ctx context.Context, path string) ([]DirItem, error)
	MoveToTrash(ctx context.Context, paths []string) error
	CopyFiles(ctx context.Context, paths []string, destination string) error
	CreateDirectory(ctx context.Context, parent, name string) (string, error)
	// RevealInFileManager is best effort; failures are only logged.
	RevealInFileManager(path string) error
	DefaultLocations(ctx context.Context) ([]Location, error)
}

// Dialogs covers the user-facing prompts the engine needs.
type Dialogs interface {
	// ChooseDirectory returns ErrCancelled when the user dismissed the dialog.
	ChooseDirectory(ctx context.Context) (string, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}
