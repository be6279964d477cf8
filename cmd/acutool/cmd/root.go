package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "acutool",
	Short: "EEPROM toolkit for Porsche 986/996 alarm control units",
	Long: `acutool decodes, checks, compares and patches 93LC66 EEPROM dumps read
from a 986/996 alarm control unit (ACU) with a CH341A style programmer.

Dumps may be raw 512 byte images or Intel HEX. Always keep a backup of the
original dump before flashing anything back to the module.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(log.Lmicroseconds | log.Lshortfile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(obdCmd)
	rootCmd.AddCommand(programRemoteCmd)
}
