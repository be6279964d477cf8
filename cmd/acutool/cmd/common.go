package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/anupcshan/acutool/dump"
	"github.com/anupcshan/acutool/eeprom"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const rule = "============================================================"

// errAborted is returned when the user declines a confirmation prompt.
var errAborted = errors.New("aborted")

// checkWarnings prints every advisory finding for img and fails if any of
// them should block a write without --force.
func checkWarnings(w io.Writer, img eeprom.Image, force bool) error {
	warnings := eeprom.Verify(img)
	if len(warnings) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\n⚠ EEPROM verification warnings:")
	for _, warning := range warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}
	if eeprom.HasBlocking(warnings) && !force {
		return errors.New("refusing to modify a suspect dump, use --force to proceed anyway")
	}
	return nil
}

func printRegion(w io.Writer, img eeprom.Image, tag eeprom.Tag) {
	region := eeprom.Lookup(tag)
	data, err := img.Field(region)
	if err != nil {
		fmt.Fprintf(w, "  0x%03X %-16s %v\n", region.Offset, region.Name, err)
		return
	}
	fmt.Fprintf(w, "  0x%03X %-16s %s\n", region.Offset, region.Name, eeprom.HexString(data))
}

// printPinCheck re-reads both PIN copies after a patch.
func printPinCheck(w io.Writer, img eeprom.Image) {
	pin, err := eeprom.CheckPin(img)
	if err != nil {
		fmt.Fprintf(w, "\nPIN verification: %v\n", err)
		return
	}

	fmt.Fprintln(w, "\nPIN verification:")
	fmt.Fprintf(w, "  0x%03X: %s\n", eeprom.Lookup(eeprom.TagPinPrimary).Offset, eeprom.HexString(pin.Primary))
	fmt.Fprintf(w, "  0x%03X: %s\n", eeprom.Lookup(eeprom.TagPinSecondary).Offset, eeprom.HexString(pin.Secondary))
	if pin.Matches {
		fmt.Fprintln(w, "  ✓ PIN intact")
	} else {
		fmt.Fprintln(w, "  ⚠ WARNING: PIN mismatch detected!")
	}
}

// confirm asks a yes/no question on the command's input. Anything other
// than y or yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s (y/N): ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// outputFormat reads the --out-format flag. An empty value picks the format
// from the output file's extension.
func outputFormat(cmd *cobra.Command) (dump.Format, error) {
	name, _ := cmd.Flags().GetString("out-format")
	return dump.ParseFormat(name)
}

// writeOutput saves img to out. With backup set the input dump is copied
// aside first, so writing over the input in place stays recoverable.
func writeOutput(w io.Writer, img eeprom.Image, in, out string, format dump.Format, backup bool) error {
	if backup {
		backupPath, err := dump.Backup(in)
		if err != nil {
			return err
		}
		log.Printf("Backed up %s to %s", in, backupPath)
	}

	if err := dump.Save(out, img.Bytes(), format); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n✓ Modified EEPROM saved to: %s\n", out)
	fmt.Fprintf(w, "  File size: %d bytes\n", img.Len())
	return nil
}
