package document

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanTitle normalizes a metadata title and falls back to the file's base
// name (without extension) when the title is empty. Titles extracted from
// document metadata can arrive in mixed Unicode normalization forms, so the
// result is always NFC-normalized.
func CleanTitle(title, path string) string {
	title = strings.TrimSpace(title)
	if title == "" && path != "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return norm.NFC.String(title)
}
