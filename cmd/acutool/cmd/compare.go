package cmd

import (
	"github.com/anupcshan/acutool/dump"
	"github.com/anupcshan/acutool/eeprom"
	"github.com/anupcshan/acutool/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "List the bytes that differ between two dumps",
	Long: `List every offset at which two dumps differ, labelled with the region it
falls in, followed by a count of changed bytes per region.

Example:
  acutool compare locked.bin unlocked.bin`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, json or cbor")
	compareCmd.Flags().Int("limit", report.DefaultDiffLimit, "Maximum differences to list (0 for all)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var a, b eeprom.Image
	var g errgroup.Group
	g.Go(func() (err error) {
		a, err = dump.LoadImage(args[0])
		return err
	})
	g.Go(func() (err error) {
		b, err = dump.LoadImage(args[1])
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c := report.Compare(args[0], a, args[1], b, limit)
	return report.WriteComparison(cmd.OutOrStdout(), c, format)
}
