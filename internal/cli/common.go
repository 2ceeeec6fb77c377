package cli

import (
	"github.com/mgpai22/kayla/internal/convert"
	"github.com/mgpai22/kayla/internal/subtitle"
	"github.com/spf13/cobra"
)

// target format: --format flag, then KAYLA_FORMAT, then SubRip
func resolveFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Format
	}
	return format
}

// converter wired to a registry honoring --frame-rate / KAYLA_FRAME_RATE
func newConverter(cmd *cobra.Command) *convert.Converter {
	rate, _ := cmd.Flags().GetFloat64("frame-rate")
	if rate <= 0 {
		rate = cfg.FrameRate
	}
	registry := subtitle.NewDefaultRegistry(subtitle.Options{FrameRate: rate})
	return convert.NewConverter(registry, convert.OSFileSystem{}, logger)
}
