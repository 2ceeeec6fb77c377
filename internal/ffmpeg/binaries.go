package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// resolves ffmpeg and ffprobe; explicit paths win over PATH lookup
func Locate(override BinaryPaths) (BinaryPaths, error) {
	paths := override

	if paths.FFmpeg == "" {
		if found, err := exec.LookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := exec.LookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}

	if !fileExists(paths.FFmpeg) {
		return BinaryPaths{}, fmt.Errorf(
			"ffmpeg not found: install it or set KAYLA_FFMPEG_PATH",
		)
	}
	if !fileExists(paths.FFprobe) {
		return BinaryPaths{}, fmt.Errorf(
			"ffprobe not found: install it or set KAYLA_FFPROBE_PATH",
		)
	}
	return paths, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
