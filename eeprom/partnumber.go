package eeprom

import (
	"fmt"
	"strconv"
	"strings"
)

// PartNumber is the decoded ACU part number.
type PartNumber struct {
	Raw []byte

	// Hex is the raw bytes as space separated upper case hex.
	Hex string

	// Decoded is the dotted form, e.g. 996.618.260.07. When DecodeFailed is
	// set it holds Hex instead.
	Decoded string

	// DecodeFailed is a fallback for a field too narrow to group. The six byte
	// part number region always yields twelve digits, so a well formed image
	// never sets it; nibbles above 9 are rendered, not rejected.
	DecodeFailed bool
}

func (p PartNumber) String() string {
	if p.DecodeFailed {
		return p.Hex + " (decode failed)"
	}
	return p.Hex + " -> " + p.Decoded
}

// DecodePartNumber reads the part number field. The only error it returns is
// an insufficient data error; formatting problems are reported through
// DecodeFailed.
func DecodePartNumber(img Image) (PartNumber, error) {
	raw, err := img.field(TagPartNumber)
	if err != nil {
		return PartNumber{}, err
	}

	pn := PartNumber{
		Raw: raw,
		Hex: HexString(raw),
	}

	decoded, err := formatPartNumber(raw)
	if err != nil {
		pn.Decoded = pn.Hex
		pn.DecodeFailed = true
		return pn, nil
	}
	pn.Decoded = decoded
	return pn, nil
}

// formatPartNumber writes each nibble as a decimal number and groups the
// digits as DDD.DDD.DDD.DD. Nibbles above 9 are kept as two digits, so 0x0A
// renders as "010".
func formatPartNumber(raw []byte) (string, error) {
	var digits strings.Builder
	for _, b := range raw {
		digits.WriteString(strconv.Itoa(int(b >> 4)))
		digits.WriteString(strconv.Itoa(int(b & 0x0F)))
	}

	d := digits.String()
	if len(d) < 11 {
		return "", fmt.Errorf("part number has %d digits, need at least 11", len(d))
	}

	// The final digit is a filler nibble and is not part of the number.
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "." + d[9:len(d)-1], nil
}

// HexString formats b as space separated upper case hex pairs.
func HexString(b []byte) string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}
