package util

import (
	"errors"
	"strings"
)

const maxFileNameLength = 200

// SanitizeFileName removes path separators, control characters, and traversal
// patterns, and caps the length so storage keys stay manageable.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if len(s) > maxFileNameLength {
		s = s[len(s)-maxFileNameLength:]
	}
	return s, nil
}
