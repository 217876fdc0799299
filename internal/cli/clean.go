package cli

import (
	"github.com/geocine/digsite/internal/utils"
	"github.com/spf13/afero"
)

// CleanSummary describes what Clean removed
type CleanSummary struct {
	Removed bool
	Files   int
	Dirs    int
	Bytes   int64
}

// Clean removes a build directory. A missing directory is not an error.
func Clean(fsys afero.Fs, dir string) (CleanSummary, error) {
	if !utils.DirExists(fsys, dir) {
		return CleanSummary{}, nil
	}
	files, dirs, bytes := utils.DirSummary(fsys, dir)
	if err := utils.RemoveAll(fsys, dir); err != nil {
		return CleanSummary{}, err
	}
	return CleanSummary{Removed: true, Files: files, Dirs: dirs, Bytes: bytes}, nil
}
