package text

import (
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// Library maps font family names to sources and caches faces.
//
// Family names are case-insensitive. Lookups accept CSS-like lists and use
// the first registered entry; when none match, the fallback source is used
// so that an unknown family never prevents drawing.
type Library struct {
	mu       sync.RWMutex
	families map[string]*FontSource
	fallback *FontSource
	faces    *faceCache
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{
		families: make(map[string]*FontSource),
		faces:    newFaceCache(),
	}
}

var (
	defaultLibrary     *Library
	defaultLibraryOnce sync.Once
)

// DefaultLibrary returns a shared library preloaded with the Go fonts.
//
// "go", "sans-serif", "serif" and "system-ui" map to Go Regular, which is
// also the fallback. "go mono" and "monospace" map to Go Mono, "go bold" to
// Go Bold and "go smallcaps" to Go Smallcaps.
func DefaultLibrary() *Library {
	defaultLibraryOnce.Do(func() {
		lib := NewLibrary()
		regular := mustSource(goregular.TTF)
		mono := mustSource(gomono.TTF)
		for _, name := range []string{"go", "sans-serif", "serif", "system-ui"} {
			lib.Register(name, regular)
		}
		lib.Register("go mono", mono)
		lib.Register("monospace", mono)
		lib.Register("go bold", mustSource(gobold.TTF))
		lib.Register("go smallcaps", mustSource(gosmallcaps.TTF))
		lib.SetFallback(regular)
		defaultLibrary = lib
	})
	return defaultLibrary
}

// mustSource parses embedded font data that is known to be valid.
func mustSource(data []byte) *FontSource {
	s, err := NewFontSource(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Register binds a family name to a source, replacing any previous binding.
// The first registered source becomes the fallback until SetFallback is called.
func (l *Library) Register(family string, src *FontSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.families[normalizeFamily(family)] = src
	if l.fallback == nil {
		l.fallback = src
	}
}

// SetFallback sets the source used when no family in a list matches.
func (l *Library) SetFallback(src *FontSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fallback = src
}

// Lookup resolves a comma-separated family list to a source.
// Returns nil only when the library is empty.
func (l *Library) Lookup(families string) *FontSource {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, name := range strings.Split(families, ",") {
		if src, ok := l.families[normalizeFamily(name)]; ok {
			return src
		}
	}
	return l.fallback
}

// Face returns a cached face for the family list at the given pixel size.
func (l *Library) Face(families string, size float64) (*Face, error) {
	src := l.Lookup(families)
	if src == nil {
		return nil, ErrNoFonts
	}
	return l.faces.get(src, size)
}

// normalizeFamily lowercases and strips quotes and surrounding spaces.
func normalizeFamily(name string) string {
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	return strings.ToLower(strings.TrimSpace(name))
}
