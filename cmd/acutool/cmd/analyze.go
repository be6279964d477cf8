package cmd

import (
	"log"

	"github.com/anupcshan/acutool/dump"
	"github.com/anupcshan/acutool/eeprom"
	"github.com/anupcshan/acutool/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dump>...",
	Short: "Decode and sanity check one or more EEPROM dumps",
	Long: `Decode the part number, OBD programming status, PIN, ECU pairing code,
remote slots and sync region of each dump and check the mirrored fields
against each other.

Example:
  acutool analyze original.bin
  acutool analyze --format json --metrics-file /var/lib/node_exporter/acu.prom bench/*.bin
  acutool analyze original.bin --compare donor.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("format", "f", "text", "Output format: text, json or cbor")
	analyzeCmd.Flags().Bool("full", false, "Append a hex dump of the whole image (text only)")
	analyzeCmd.Flags().StringP("compare", "c", "", "Compare the first dump with this one")
	analyzeCmd.Flags().Int("limit", report.DefaultDiffLimit, "Maximum differences to list with --compare (0 for all)")
	analyzeCmd.Flags().String("metrics-file", "", "Write Prometheus gauges for every dump to this textfile")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	full, _ := cmd.Flags().GetBool("full")
	other, _ := cmd.Flags().GetString("compare")
	limit, _ := cmd.Flags().GetInt("limit")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	images := make([]eeprom.Image, len(args))
	reports := make([]*report.Report, len(args))
	var g errgroup.Group
	for i, path := range args {
		g.Go(func() error {
			img, err := dump.LoadImage(path)
			if err != nil {
				return err
			}
			images[i] = img
			reports[i] = report.Analyze(path, img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range reports {
		if err := report.Write(out, r, format, full); err != nil {
			return err
		}
	}

	metrics := report.NewMetrics()
	for _, r := range reports {
		metrics.Observe(r)
	}

	if other != "" {
		b, err := dump.LoadImage(other)
		if err != nil {
			return err
		}
		c := report.Compare(args[0], images[0], other, b, limit)
		metrics.ObserveComparison(c)
		if err := report.WriteComparison(out, c, format); err != nil {
			return err
		}
	}

	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			return err
		}
		log.Printf("Wrote metrics for %d dumps to %s", len(reports), metricsFile)
	}
	return nil
}
