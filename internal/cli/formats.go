package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mgpai22/kayla/internal/subtitle"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported subtitle formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tEXTENSIONS\tREAD\tWRITE")
		for _, d := range subtitle.Default().Descriptors() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				d.Format,
				d.Extensions,
				yesNo(d.Parser != nil),
				yesNo(d.Serializer != nil),
			)
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
