// Package export names and writes exported Markdown files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	fallbackName = "conversation"
	maxSlugLen   = 60
)

var (
	unsafeRe = regexp.MustCompile(`[\x00-\x1f<>:"/\\|?*]+`)
	spaceRe  = regexp.MustCompile(`\s+`)
	dashRe   = regexp.MustCompile(`-+`)
)

// SanitizeFilename strips characters that are not allowed in file names.
func SanitizeFilename(name string) string {
	clean := strings.TrimSpace(unsafeRe.ReplaceAllString(name, ""))
	if clean == "" {
		return fallbackName
	}
	return clean
}

// Slug turns a title into a short lower-case file name fragment.
func Slug(title string) string {
	s := strings.ToLower(SanitizeFilename(title))
	s = spaceRe.ReplaceAllString(s, "-")
	s = dashRe.ReplaceAllString(s, "-")
	if r := []rune(s); len(r) > maxSlugLen {
		s = string(r[:maxSlugLen])
	}
	if s == "" {
		return fallbackName
	}
	return s
}

// FilePrefix is the local-time stamp that starts every export file name.
func FilePrefix(t time.Time) string {
	return "chatgpt-" + t.Format("20060102-1504")
}

// FileName is the default name for an export of title taken at t.
func FileName(title string, t time.Time) string {
	return FilePrefix(t) + "-" + Slug(title) + ".md"
}

// Write stores content as dir/name and returns the full path.
func Write(dir, name, content string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, SanitizeFilename(name))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
