package util

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxFilenameRunes = 255
	fallbackFilename = "image"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// CleanFilename reduces an operator supplied upload name to something the
// inventory service stores safely: the last path element only, no control or
// invisible characters, no leading dots, at most 255 runes. It never fails;
// names with nothing left become "image" with the original extension.
func CleanFilename(name string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	trimmed = path.Base(trimmed)
	if trimmed == "." || trimmed == "/" {
		trimmed = ""
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if unicode.IsControl(r) || isInvisible(r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(b.String(), "_"))

	ext := path.Ext(cleaned)
	stem := strings.TrimSpace(strings.TrimLeft(strings.TrimSuffix(cleaned, ext), "."))
	if stem == "" {
		stem = fallbackFilename
	}
	cleaned = stem + ext

	if runes := []rune(cleaned); len(runes) > maxFilenameRunes {
		cleaned = string(runes[:maxFilenameRunes])
	}
	return cleaned
}

// isInvisible reports zero-width and other format characters.
func isInvisible(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F', '\u2060', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
