package cmd

import (
	"fmt"
	"strings"

	"github.com/anupcshan/acutool/dump"
	"github.com/anupcshan/acutool/eeprom"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var obdCmd = &cobra.Command{
	Use:   "obd <in> [out]",
	Short: "Check, unlock or relock OBD key programming",
	Long: `Enable OBD-II key programming on an alarm control unit by rewriting the OBD
flag, authentication bypass and unlock regions of its EEPROM. With --lock the
regions are returned to a typical locked state instead.

The PIN and pairing codes are never touched; both PIN copies are re-read after
patching as a sanity check.

Example:
  acutool obd my_eeprom.bin --check
  acutool obd original.bin unlocked.bin
  acutool obd unlocked.bin relocked.bin --lock`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runObd,
}

func init() {
	obdCmd.Flags().Bool("lock", false, "Lock OBD access (default is unlock)")
	obdCmd.Flags().Bool("check", false, "Only report the current status")
	obdCmd.Flags().BoolP("force", "f", false, "Proceed despite verification warnings")
	obdCmd.Flags().Bool("backup", false, "Copy the input dump aside before writing")
	obdCmd.Flags().String("out-format", "", "Output format: bin or hex (default from the output file extension)")
}

var obdRegions = []eeprom.Tag{eeprom.TagObdFlags, eeprom.TagAuthBypass, eeprom.TagUnlockData}

func printObdRegions(cmd *cobra.Command, img eeprom.Image, title string) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, tag := range obdRegions {
		printRegion(w, img, tag)
	}
}

func runObd(cmd *cobra.Command, args []string) error {
	lock, _ := cmd.Flags().GetBool("lock")
	check, _ := cmd.Flags().GetBool("check")
	force, _ := cmd.Flags().GetBool("force")
	backup, _ := cmd.Flags().GetBool("backup")
	outFormat, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	in := args[0]
	img, err := dump.LoadImage(in)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PORSCHE 986/996 ACU OBD UNLOCK TOOL")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Input: %s (%d bytes)\n", in, img.Len())

	// --check only reports, so warnings never block it.
	if err := checkWarnings(w, img, force || check); err != nil {
		return err
	}

	status, err := eeprom.CheckObdStatus(img)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nCurrent Status: %s\n", strings.ToUpper(status.State.String()))
	fmt.Fprintf(w, "  %s\n", status.Reason())

	if check {
		printObdRegions(cmd, img, "Current OBD regions")
		fmt.Fprintln(w, "\n"+rule)
		switch status.State {
		case eeprom.ObdUnlocked:
			fmt.Fprintln(w, "OBD programming access is ENABLED")
			fmt.Fprintln(w, "You can program keys via PIWIS/PST2/ABRITES over OBD-II")
		case eeprom.ObdLocked:
			fmt.Fprintln(w, "OBD programming access is DISABLED")
			fmt.Fprintln(w, "Key programming via OBD-II will be rejected")
		default:
			fmt.Fprintln(w, "OBD status could not be determined")
		}
		return nil
	}

	if len(args) < 2 {
		return errors.New("output file required (or use --check to only check status)")
	}
	out := args[1]

	profile := eeprom.UnlockProfile
	already := eeprom.ObdUnlocked
	if lock {
		profile = eeprom.LockProfile
		already = eeprom.ObdLocked
	}

	fmt.Fprintf(w, "Output: %s\n", out)
	fmt.Fprintf(w, "Action: %s\n", strings.ToUpper(profile.Name))
	fmt.Fprintln(w, rule)

	printObdRegions(cmd, img, "BEFORE")
	if status.State == already {
		fmt.Fprintf(w, "\nNote: EEPROM already appears to be %sed\n", profile.Name)
	}

	patched, err := eeprom.ApplyProfile(img, profile)
	if err != nil {
		return err
	}
	printObdRegions(cmd, patched, "AFTER")
	printPinCheck(w, patched)

	if err := writeOutput(w, patched, in, out, outFormat, backup); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintf(w, "SUCCESS! OBD access is now %sED\n", strings.ToUpper(profile.Name))
	fmt.Fprintln(w, rule)
	if !lock {
		fmt.Fprintf(w, "\nFlash %s back to the ACU, then program keys with your PIN over OBD-II.\n", out)
		fmt.Fprintf(w, "To restore anti-theft protection later:\n  acutool obd %s relocked.bin --lock\n", out)
	}
	return nil
}
