package nav

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means the path no longer exists.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied means the provider refused the operation.
	ErrAccessDenied = errors.New("access denied")
	// ErrAlreadyExists is returned by folder creation when the name is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnavailable means the filesystem could not be reached at all.
	ErrUnavailable = errors.New("filesystem unavailable")
	// ErrCancelled is returned by dialogs the user dismissed. The engine
	// turns it into a no-op.
	ErrCancelled = errors.New("cancelled by user")
	// ErrPartialFailure matches any *PartialFailureError.
	ErrPartialFailure = errors.New("partial failure")

	ErrBusy           = errors.New("another operation is in progress for this route")
	ErrEmptySelection = errors.New("nothing selected")
	ErrInvalidName    = errors.New("invalid folder name")
	ErrUnknownRoute   = errors.New("unknown route")
	ErrUnknownEntry   = errors.New("unknown entry")
)

// PathError records the failure of one item in a batch operation.
type PathError struct {
	Path string
	Err  error
}

func (e PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e PathError) Unwrap() error { return e.Err }

// PartialFailureError is returned when some items of a batch failed. Items
// not listed in Failed succeeded.
type PartialFailureError struct {
	Failed []PathError
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%d item(s) failed: %s", len(e.Failed), strings.Join(parts, "; "))
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

// FailedPaths returns the set of paths that failed.
func (e *PartialFailureError) FailedPaths() map[string]bool {
	failed := make(map[string]bool, len(e.Failed))
	for _, f := range e.Failed {
		failed[f.Path] = true
	}
	return failed
}
