package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/kayla/internal/ffmpeg"
)

// subtitle stream embedded in a media container
type SubtitleStream struct {
	Index    int    // position among the file's subtitle streams
	Codec    string // e.g. subrip, ass, mov_text
	Language string
	Title    string
}

// defines interface for embedded subtitle operations
type Processor interface {
	// lists the subtitle streams of a video file
	SubtitleStreams(ctx context.Context, videoPath string) ([]SubtitleStream, error)

	// writes one subtitle stream as a SubRip file
	ExtractSubtitles(
		ctx context.Context,
		videoPath, outputPath string,
		opts ExtractSubtitleOptions,
	) error
}

// holds options for subtitle extraction
type ExtractSubtitleOptions struct {
	Stream int // index among subtitle streams (0 = first)
}

// default implementation using ffmpeg
type DefaultProcessor struct {
	binaries ffmpegbin.BinaryPaths
}

func NewProcessor(binaries ffmpegbin.BinaryPaths) *DefaultProcessor {
	return &DefaultProcessor{binaries: binaries}
}

// JSON output from ffprobe -show_streams
type ffprobeStreams struct {
	Streams []struct {
		CodecName string `json:"codec_name"`
		Tags      struct {
			Language string `json:"language"`
			Title    string `json:"title"`
		} `json:"tags"`
	} `json:"streams"`
}

func (p *DefaultProcessor) SubtitleStreams(
	ctx context.Context,
	videoPath string,
) ([]SubtitleStream, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	cmd := exec.CommandContext(ctx, p.binaries.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseSubtitleStreams(out.Bytes())
}

func parseSubtitleStreams(data []byte) ([]SubtitleStream, error) {
	var probe ffprobeStreams
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	streams := make([]SubtitleStream, len(probe.Streams))
	for i, s := range probe.Streams {
		streams[i] = SubtitleStream{
			Index:    i,
			Codec:    s.CodecName,
			Language: s.Tags.Language,
			Title:    s.Tags.Title,
		}
	}
	return streams, nil
}

func (p *DefaultProcessor) ExtractSubtitles(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExtractSubtitleOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if opts.Stream < 0 {
		return fmt.Errorf("invalid subtitle stream %d", opts.Stream)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", opts.Stream), // subtitle stream
		"c:s": "srt",                              // SubRip codec
		"y":   "",                                 // Overwrite output
	}

	err := ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(p.binaries.FFmpeg).
		Run()

	if err != nil {
		return fmt.Errorf("ffmpeg subtitle extraction failed: %w", err)
	}

	return nil
}

// checks if the file is a video container based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".ts":   true,
	}
	return videoExts[ext]
}
