package cli

import (
	"github.com/mgpai22/kayla/internal/config"
	"github.com/mgpai22/kayla/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kayla",
	Short: "Subtitle format converter",
	Long: `Kayla converts subtitle files between formats.

It reads MicroDVD, SAMI, SubStation Alpha, SubViewer, TTML, WebVTT,
YouTube XML and SubRip files and writes MicroDVD, SAMI, SubStation Alpha,
SubViewer or SubRip.

Defaults can be set with KAYLA_* environment variables or a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringP("format", "f", "", "Target format (MicroDVD, SAMI, SubStationAlpha, SubViewer, SubRip)")
	rootCmd.PersistentFlags().
		Float64("frame-rate", 0, "Frame rate for MicroDVD output (default 25)")
}
