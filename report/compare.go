package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// DefaultDiffLimit caps the number of differences listed in a comparison.
const DefaultDiffLimit = 100

type Difference struct {
	Offset int    `json:"offset" cbor:"offset"`
	A      byte   `json:"a" cbor:"a"`
	B      byte   `json:"b" cbor:"b"`
	Region string `json:"region,omitempty" cbor:"region,omitempty"`
}

type Touched struct {
	Region string `json:"region" cbor:"region"`
	Count  int    `json:"count" cbor:"count"`
}

type Comparison struct {
	NameA          string       `json:"name_a" cbor:"name_a"`
	SizeA          int          `json:"size_a" cbor:"size_a"`
	NameB          string       `json:"name_b" cbor:"name_b"`
	SizeB          int          `json:"size_b" cbor:"size_b"`
	LengthMismatch bool         `json:"length_mismatch" cbor:"length_mismatch"`
	Total          int          `json:"total" cbor:"total"`
	Differences    []Difference `json:"differences" cbor:"differences"`
	Touched        []Touched    `json:"touched,omitempty" cbor:"touched,omitempty"`
}

// Truncated is the number of differences not listed.
func (c *Comparison) Truncated() int {
	return c.Total - len(c.Differences)
}

// Compare diffs two images, listing at most limit differences (all of them
// when limit <= 0).
func Compare(nameA string, a eeprom.Image, nameB string, b eeprom.Image, limit int) *Comparison {
	diff := eeprom.Diff(a, b)
	c := &Comparison{
		NameA:          nameA,
		SizeA:          diff.LenA(),
		NameB:          nameB,
		SizeB:          diff.LenB(),
		LengthMismatch: diff.LengthMismatch(),
		Total:          diff.Count(),
		Differences:    []Difference{},
	}

	for _, e := range diff.Collect(limit) {
		c.Differences = append(c.Differences, Difference{Offset: e.Offset, A: e.A, B: e.B, Region: e.Region})
	}
	for _, t := range diff.Touched() {
		c.Touched = append(c.Touched, Touched{Region: t.Region, Count: t.Count})
	}
	return c
}

func WriteComparisonText(w io.Writer, c *Comparison) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format+"\n", args...)
		}
	}

	rule := "======================================================================"
	p("\n%s", rule)
	p("EEPROM COMPARISON")
	p("%s", rule)
	p("File 1: %s (%d bytes)", c.NameA, c.SizeA)
	p("File 2: %s (%d bytes)", c.NameB, c.SizeB)
	p("----------------------------------------------------------------------")
	if c.LengthMismatch {
		p("⚠ Files have different sizes!")
	}
	p("\nTotal differences: %d bytes", c.Total)

	if c.Total == 0 {
		if !c.LengthMismatch {
			p("\n✓ Files are identical!")
		}
		return err
	}

	p("\nOffset   File1  File2  Region")
	p("--------------------------------------------------")
	for _, d := range c.Differences {
		p("0x%04X   0x%02X   0x%02X   %s", d.Offset, d.A, d.B, d.Region)
	}
	if n := c.Truncated(); n > 0 {
		p("... and %d more differences", n)
	}

	if len(c.Touched) > 0 {
		p("\nBytes changed per region:")
		for _, t := range c.Touched {
			region := t.Region
			if region == "" {
				region = "(unlabelled)"
			}
			p("  %-28s %d", region, t.Count)
		}
	}
	return err
}

func WriteComparison(w io.Writer, c *Comparison, format Format) error {
	switch format {
	case FormatText:
		return WriteComparisonText(w, c)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatCBOR:
		b, err := cbor.Marshal(c)
		if err != nil {
			return errors.Wrap(err, "encoding CBOR comparison")
		}
		_, err = w.Write(b)
		return err
	}
	return errors.Errorf("unknown report format %q", format)
}
