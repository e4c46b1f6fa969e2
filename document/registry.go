package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// OpenFunc opens the file at path and returns a Document, or an error on
// missing, corrupt, or password-protected files.
type OpenFunc func(path string) (Document, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]OpenFunc)
)

// Register associates a file extension (with or without the leading dot,
// case-insensitive) with a provider's open function. Later registrations
// for the same extension replace earlier ones.
func Register(ext string, open OpenFunc) {
	ext = normalizeExt(ext)
	if ext == "" || open == nil {
		return
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[ext] = open
}

// Open opens the file at path with the provider registered for its
// extension. It returns ErrUnsupported when no provider matches.
func Open(path string) (Document, error) {
	ext := normalizeExt(filepath.Ext(path))

	registryMu.RLock()
	open, ok := registry[ext]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return open(path)
}

// IsSupported reports whether a provider is registered for the file's
// extension.
func IsSupported(path string) bool {
	ext := normalizeExt(filepath.Ext(path))

	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[ext]
	return ok
}

// SupportedExtensions returns the registered extensions, dot-prefixed,
// in no particular order.
func SupportedExtensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
