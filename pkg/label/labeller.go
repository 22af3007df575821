// Package label derives the grouping label for a source image from its
// filename. The label becomes the folder prefix inside the generated
// archives, so two files that tokenize to the same label end up grouped.
package label

import (
	"path/filepath"
	"strings"
)

// Defaults matching the catalog naming scheme the tool was built for:
// SKU-style filenames such as "109-602-3906-001-c-suit.jpg", where the
// first 13 meaningful characters identify the article.
const (
	// DefaultDigits is the number of meaningful characters accumulated
	// before tokenizing stops.
	DefaultDigits = 13
)

// DefaultSeparators are the token separators tried in order.
var DefaultSeparators = []string{"-", "_"}

// Labeller derives labels from filenames. It is pure and reentrant: one
// instance is constructed per run and shared across all files.
type Labeller struct {
	digits     int
	separators []string
}

// New creates a Labeller accumulating up to digits meaningful characters.
// A non-positive digits falls back to DefaultDigits; empty separators fall
// back to DefaultSeparators.
func New(digits int, separators ...string) *Labeller {
	if digits <= 0 {
		digits = DefaultDigits
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &Labeller{digits: digits, separators: separators}
}

// Label derives the label for name. The directory and extension are
// stripped first. For each separator in order, the basename is split and
// tokens are accumulated until the running length reaches the configured
// digit count; the accumulation is returned as soon as that happens.
// If no separator produces a label, the basename prefix is returned.
func (l *Labeller) Label(name string) string {
	base := filepath.Base(name)
	if idx := strings.IndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	for _, sep := range l.separators {
		if label := l.tokenize(base, sep); label != "" {
			return label
		}
	}
	if len(base) > l.digits {
		return base[:l.digits]
	}
	return base
}

// tokenize joins sep-delimited tokens until the accumulated length reaches
// the digit count. Returns "" when name does not contain sep or the tokens
// never accumulate enough characters.
func (l *Labeller) tokenize(name, sep string) string {
	if !strings.Contains(name, sep) {
		return ""
	}
	var label strings.Builder
	for _, token := range strings.Split(name, sep) {
		label.WriteString(token)
		if label.Len() >= l.digits {
			return label.String()
		}
	}
	return ""
}
