package utils

import (
	"strings"
)

// SanitizePathComponent replaces characters that are unsafe in file paths.
// Conversation identifiers become archive directory names, so anything the
// filesystem could interpret is flattened to an underscore.
func SanitizePathComponent(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
