package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/kayla/internal/ffmpeg"
	"github.com/mgpai22/kayla/internal/video"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle track from a video file",
	Long: `Extract a subtitle stream from a video container and convert it.

The stream is pulled out with ffmpeg as SubRip and then converted to the
target format like any other input. Use --list to see the available
subtitle streams.

Examples:
  kayla extract movie.mkv
  kayla extract movie.mkv --list
  kayla extract movie.mkv --stream 1 -f SAMI -o out/`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		StringP("output", "o", "", "Output file or directory (default: next to the video)")
	extractCmd.Flags().
		IntP("stream", "s", 0, "Subtitle stream index (0 = first subtitle stream)")
	extractCmd.Flags().
		Bool("list", false, "List subtitle streams instead of extracting")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := context.Background()

	stream, _ := cmd.Flags().GetInt("stream")
	list, _ := cmd.Flags().GetBool("list")
	outputPath, _ := cmd.Flags().GetString("output")
	format := resolveFormat(cmd)

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !video.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
	}

	binaries, err := ffmpeg.Locate(ffmpeg.BinaryPaths{
		FFmpeg:  cfg.FFmpegPath,
		FFprobe: cfg.FFprobePath,
	})
	if err != nil {
		return err
	}
	processor := video.NewProcessor(binaries)

	if list {
		streams, err := processor.SubtitleStreams(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("failed to list subtitle streams: %w", err)
		}
		if len(streams) == 0 {
			fmt.Println("No subtitle streams found")
			return nil
		}
		for _, s := range streams {
			fmt.Printf("  %d: %s %s %s\n", s.Index, s.Codec, s.Language, s.Title)
		}
		return nil
	}

	tempDir, err := os.MkdirTemp("", "kayla-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// named after the video so directory outputs keep its base name
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	extracted := filepath.Join(tempDir, base+".srt")

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"stream", stream,
	)

	if err := processor.ExtractSubtitles(ctx, videoPath, extracted, video.ExtractSubtitleOptions{
		Stream: stream,
	}); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if outputPath == "" {
		outputPath = filepath.Dir(videoPath)
	}

	written, err := newConverter(cmd).Convert(extracted, outputPath, format)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	absOutput, _ := filepath.Abs(written)
	fmt.Printf("Subtitles extracted successfully: %s\n", absOutput)
	return nil
}
