package testutil

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// MemFS returns an in-memory filesystem holding files (path → content)
func MemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for p, content := range files {
		WriteFile(t, fsys, p, content)
	}
	return fsys
}

// WriteFile writes content to a file, creating parent directories
func WriteFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
}

// ReadFile reads content from a test file
func ReadFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	content, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(content)
}

// JSON marshals v or fails the test
func JSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	return string(data)
}

// NormalizeHTML normalizes HTML for comparison (whitespace, attrs, etc.)
func NormalizeHTML(html string) string {
	// Collapse multiple whitespace
	html = regexp.MustCompile(`\s+`).ReplaceAllString(html, " ")

	// Remove spaces around tags
	html = regexp.MustCompile(`>\s+<`).ReplaceAllString(html, "><")

	return strings.TrimSpace(html)
}

// FileExists checks if a file exists
func FileExists(t *testing.T, fsys afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	return err == nil && ok
}
