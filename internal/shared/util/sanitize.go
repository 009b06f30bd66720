package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

const maxFileNameLen = 120

// SanitizeFileName removes path separators and control characters and
// rejects traversal patterns. Long names keep their extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if runes := []rune(s); len(runes) > maxFileNameLen {
		ext := filepath.Ext(s)
		keep := maxFileNameLen - len([]rune(ext))
		if keep < 1 {
			return string(runes[:maxFileNameLen]), nil
		}
		s = string([]rune(strings.TrimSuffix(s, ext))[:keep]) + ext
	}
	return s, nil
}
