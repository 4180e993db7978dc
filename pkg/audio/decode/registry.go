// ABOUTME: Decoder registry keyed by file extension
// ABOUTME: Maps ".mp3", ".flac" and ".ogg" to their decoder constructors
package decode

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Opener constructs a Decoder over an encoded byte stream
type Opener func(r io.Reader) Decoder

// Registry maps lower-case file extensions (with the leading dot) to openers
type Registry struct {
	openers map[string]Opener
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

// Default returns a registry with every built-in decoder registered
func Default() *Registry {
	r := NewRegistry()
	r.Register(".mp3", NewMP3)
	r.Register(".flac", NewFLAC)
	r.Register(".ogg", NewVorbis)
	return r
}

// Register associates an extension with an opener, replacing any previous one
func (r *Registry) Register(ext string, open Opener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.openers[normalizeExt(ext)] = open
}

// Lookup returns the opener registered for the extension of path
func (r *Registry) Lookup(path string) (Opener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	open, ok := r.openers[normalizeExt(filepath.Ext(path))]
	return open, ok
}

// Extensions lists the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.openers))
	for ext := range r.openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
