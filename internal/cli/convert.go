package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert a single subtitle file to another format.

The input format is chosen by file extension. When several formats share
an extension (.sub, .xml) each is tried in turn. If --output names an
existing directory the output file takes the input's name with the
target format's extension.

Examples:
  kayla convert movie.srt -f SAMI
  kayla convert episode.ass -o out/ -f SubRip
  kayla convert clip.srt -f MicroDVD --frame-rate 23.976 -o clip.sub`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("output", "o", "", "Output file or directory (default: next to the input)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	format := resolveFormat(cmd)

	if outputPath == "" {
		outputPath = filepath.Dir(inputPath)
	}

	logger.Debugw("Starting conversion",
		"input", inputPath,
		"output", outputPath,
		"format", format,
	)

	written, err := newConverter(cmd).Convert(inputPath, outputPath, format)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	absOutput, _ := filepath.Abs(written)
	fmt.Printf("Converted file: %s\n", absOutput)
	return nil
}
