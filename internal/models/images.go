package models

import (
	"path"
	"strings"

	"github.com/geocine/digsite/internal/location"
)

// ImageLocation maps an old image or video path to its place in the new
// site. Images keep their subdirectory below /imgs; videos become mp4 files
// below /video.
func ImageLocation(oldPath string) location.Location {
	const images = "html/images/"
	if i := strings.Index(oldPath, images); i >= 0 {
		return ImagesDir.Join(oldPath[i+len(images):])
	}
	switch strings.ToLower(path.Ext(oldPath)) {
	case ".mov", ".mpg", ".mp4":
		base := path.Base(oldPath)
		return VideoDir.Join(strings.TrimSuffix(base, path.Ext(base)) + ".mp4")
	}
	return location.Location(path.Clean("/" + oldPath))
}
