package testhelpers

import (
	"path/filepath"
	"runtime"
)

// RepoRoot returns the absolute path to the repository root.
func RepoRoot() string {
	// this file lives at <repo>/test/helpers.go
	_, file, _, _ := runtime.Caller(0)
	testDir := filepath.Dir(file)
	return filepath.Dir(testDir)
}

// FrontendDir is the frontend directory embedded into the binary.
func FrontendDir() string {
	return filepath.Join(RepoRoot(), "frontend")
}
