// Package debug provides a centralized, categorized debug logging system.
// Categories are switched on with PICROUTE_DEBUG (e.g. "all", "none" or
// "NAV,FS") or programmatically; output goes through a zerolog console writer.
package debug

import (
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Category represents a debug logging category
type Category string

const (
	// Core categories
	APP   Category = "APP"   // Startup, wiring
	NAV   Category = "NAV"   // History transitions, route registration
	CACHE Category = "CACHE" // Directory loads, generations, invalidation
	OPS   Category = "OPS"   // Trash, copy, create-folder
	FS    Category = "FS"    // Provider calls against the local filesystem
	STORE Category = "STORE" // Database operations, settings, favorites
	CLI   Category = "CLI"   // Terminal front end

	// Verbose
	FS_ENTRY Category = "FS_ENTRY" // Individual entry processing
)

var (
	enabledCategories = map[Category]bool{
		APP:      false,
		NAV:      false,
		CACHE:    false,
		OPS:      false,
		FS:       false,
		STORE:    false,
		CLI:      false,
		FS_ENTRY: false,
	}
	categoryMu sync.RWMutex

	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05.000",
	}).With().Timestamp().Logger()
}

func init() {
	if env := os.Getenv("PICROUTE_DEBUG"); env != "" {
		Configure(env)
	}
}

// Configure applies a category list in the PICROUTE_DEBUG format.
func Configure(spec string) {
	categoryMu.Lock()
	defer categoryMu.Unlock()

	spec = strings.ToUpper(strings.TrimSpace(spec))
	switch spec {
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE", "":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(spec, ",") {
			cat = strings.TrimSpace(cat)
			if cat != "" {
				enabledCategories[Category(cat)] = true
			}
		}
	}
}

// SetOutput redirects debug output, e.g. to a file or a test buffer.
func SetOutput(w io.Writer) {
	categoryMu.Lock()
	logger = newLogger(w)
	categoryMu.Unlock()
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	l := logger
	categoryMu.RUnlock()

	if !enabled {
		return
	}
	l.Debug().Str("cat", string(cat)).Msgf(format, args...)
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// EnableAll enables all debug categories including verbose ones
func EnableAll() { Configure("all") }

// DisableAll disables all debug categories
func DisableAll() { Configure("none") }

// ListEnabled returns the currently enabled categories in sorted order
func ListEnabled() []Category {
	categoryMu.RLock()
	defer categoryMu.RUnlock()

	var enabled []Category
	for cat, on := range enabledCategories {
		if on {
			enabled = append(enabled, cat)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i] < enabled[j] })
	return enabled
}
