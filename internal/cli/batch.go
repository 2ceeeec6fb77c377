package cli

import (
	"context"
	"fmt"

	"github.com/mgpai22/kayla/internal/convert"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [input_dir] [output_dir]",
	Short: "Convert every subtitle file in a directory",
	Long: `Convert all files in a directory (non-recursive) to one format.

Files that cannot be converted are reported and skipped; they never stop
the batch.

Examples:
  kayla batch subs/ out/
  kayla batch subs/ out/ -f SubStationAlpha --concurrency 4`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().
		Int("concurrency", 0, "Number of files converted in parallel (default 1)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir, outputDir := args[0], args[1]
	format := resolveFormat(cmd)

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency == 0 {
		concurrency = cfg.Concurrency
	}
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}

	report, err := newConverter(cmd).ConvertBatch(
		context.Background(),
		inputDir,
		outputDir,
		format,
		convert.BatchOptions{Concurrency: concurrency},
	)
	if err != nil {
		return fmt.Errorf("batch conversion failed: %w", err)
	}

	fmt.Printf("Converted files (%d):\n", len(report.Converted))
	for _, name := range report.Converted {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("Not converted files (%d):\n", len(report.Unconverted))
	for _, name := range report.Unconverted {
		fmt.Printf("  %s\n", name)
	}

	return nil
}
