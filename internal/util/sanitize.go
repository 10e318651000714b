package util

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go-art-gallery/internal/model"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

var windowsReservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeFilename normalizes a client-supplied upload filename into a
// safe flat name. Control and invisible characters are stripped, path
// and shell metacharacters replaced, hidden and reserved names rejected.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: filename cannot be empty", model.ErrValidation)
	}

	if strings.Contains(trimmed, "\x00") {
		return "", fmt.Errorf("%w: filename contains null bytes", model.ErrValidation)
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	if cleaned == "" {
		return "", fmt.Errorf("%w: filename is invalid after sanitization", model.ErrValidation)
	}

	// Truncate by runes so multi-byte characters are never split.
	runes := []rune(cleaned)
	if len(runes) > 255 {
		runes = runes[:255]
	}
	cleaned = string(runes)

	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("%w: hidden filenames are not allowed", model.ErrValidation)
	}

	stem := cleaned
	if idx := strings.Index(cleaned, "."); idx >= 0 {
		stem = cleaned[:idx]
	}
	if _, exists := windowsReservedNames[strings.ToUpper(stem)]; exists {
		return "", fmt.Errorf("%w: reserved filename is not allowed", model.ErrValidation)
	}

	return cleaned, nil
}

// isInvisibleUnicode reports zero-width and directional formatting
// characters that should never survive into a storage key.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\uFEFF': // Byte Order Mark
		return true
	}
	return false
}
