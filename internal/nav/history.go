package nav

import "path/filepath"

// defaultMaxHistory bounds the back stack.
const defaultMaxHistory = 100

// History is the back/forward state machine. A path appears at most once
// across the back stack, the current path and the forward stack.
type History struct {
	back    []string
	forward []string
	current string
	max     int
}

// NewHistory creates a history with an optional starting path.
func NewHistory(current string, max int) *History {
	if max <= 0 {
		max = defaultMaxHistory
	}
	return &History{current: current, max: max}
}

// Current returns the current path.
func (h *History) Current() string { return h.current }

// NavigateTo makes path current. The old current path is pushed onto the back
// stack and the forward branch is discarded. Navigating to the current path
// changes nothing and reports false.
func (h *History) NavigateTo(path string) bool {
	if path == h.current {
		return false
	}
	if h.current != "" {
		h.back = append(h.back, h.current)
	}
	h.back = without(h.back, path)
	h.forward = h.forward[:0]
	h.current = path

	// Limit history size to prevent unbounded memory growth
	if excess := len(h.back) - h.max; excess > 0 {
		h.back = append(h.back[:0], h.back[excess:]...)
	}
	return true
}

// GoBack moves to the top of the back stack. It reports false when empty.
func (h *History) GoBack() bool {
	if len(h.back) == 0 {
		return false
	}
	top := h.back[len(h.back)-1]
	h.back = h.back[:len(h.back)-1]
	h.forward = append(h.forward, h.current)
	h.current = top
	return true
}

// GoForward moves to the top of the forward stack. It reports false when empty.
func (h *History) GoForward() bool {
	if len(h.forward) == 0 {
		return false
	}
	top := h.forward[len(h.forward)-1]
	h.forward = h.forward[:len(h.forward)-1]
	h.back = append(h.back, h.current)
	h.current = top
	return true
}

// CanGoBack reports whether the back stack is non-empty.
func (h *History) CanGoBack() bool { return len(h.back) > 0 }

// CanGoForward reports whether the forward stack is non-empty.
func (h *History) CanGoForward() bool { return len(h.forward) > 0 }

// BackStack returns a copy of the back stack, oldest first.
func (h *History) BackStack() []string { return append([]string(nil), h.back...) }

// ForwardStack returns a copy of the forward stack, oldest first.
func (h *History) ForwardStack() []string { return append([]string(nil), h.forward...) }

// Parent returns the parent of the current path, or false at a root.
func (h *History) Parent() (string, bool) {
	return parentOf(h.current)
}

func parentOf(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	parent := filepath.Dir(path)
	if parent == path {
		return "", false // Already at root
	}
	return parent, true
}

func without(stack []string, path string) []string {
	out := stack[:0]
	for _, p := range stack {
		if p != path {
			out = append(out, p)
		}
	}
	return out
}
