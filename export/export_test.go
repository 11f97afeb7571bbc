package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Chat", "My Chat"},
		{`a/b\c:d*e?f"g<h>i|j`, "abcdefghij"},
		{"  \t ", "conversation"},
		{"???", "conversation"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go  Concurrency Tips", "go-concurrency-tips"},
		{"a - b", "a-b"},
		{"", "conversation"},
		{strings.Repeat("x", 80), strings.Repeat("x", 60)},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 0, 0, time.Local)
	if got := FileName("Weekly Sync", at); got != "chatgpt-20240309-0705-weekly-sync.md" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := Write(dir, "notes.md", "# hi\n")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if path != filepath.Join(dir, "notes.md") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "# hi\n" {
		t.Errorf("content = %q", data)
	}
}
