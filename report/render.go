package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCBOR:
		return f, nil
	}
	return "", errors.Errorf("unknown report format %q (want text, json or cbor)", s)
}

// FormatHex formats data as a hex dump with an ASCII column, 16 bytes per
// line, addresses starting at start.
func FormatHex(data []byte, start int) string {
	var lines []string
	for i := 0; i < len(data); i += 16 {
		chunk := data[i:min(i+16, len(data))]

		var ascii strings.Builder
		for _, b := range chunk {
			if b >= 32 && b < 127 {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}
		lines = append(lines, fmt.Sprintf("%04X: %-48s %s", start+i, eeprom.HexString(chunk), ascii.String()))
	}
	return strings.Join(lines, "\n")
}

var regionsByName = func() map[string]eeprom.Region {
	m := map[string]eeprom.Region{}
	for _, r := range eeprom.Regions() {
		m[r.Name] = r
	}
	return m
}()

var funcs = template.FuncMap{
	"region": func(name string) eeprom.Region {
		r, ok := regionsByName[name]
		if !ok {
			panic("report: no region " + name)
		}
		return r
	},
	"span": func(r eeprom.Region) string {
		return fmt.Sprintf("(0x%03X-0x%03X)", r.Offset, r.End()-1)
	},
	"upper": strings.ToUpper,
	"deref": func(b *bool) bool { return *b },
	"indent": func(s string) string {
		return "  " + strings.ReplaceAll(s, "\n", "\n  ")
	},
}

var analysisTemplate = template.Must(template.New("analysis").Funcs(funcs).Parse(`{{define "rule"}}======================================================================{{end -}}
{{template "rule"}}
PORSCHE 986/996 ACU EEPROM ANALYSIS
{{template "rule"}}
File: {{.Name}}
Size: {{.Size}} bytes
{{- range .Warnings}}
⚠ WARNING: {{.Message}}
{{- end}}
{{template "rule"}}

[PART NUMBER] {{span (region "PartNumber")}}
----------------------------------------
{{if .PartNumber}}  {{.PartNumber.Hex}}{{if .PartNumber.DecodeFailed}} (decode failed){{else}} -> {{.PartNumber.Decoded}}{{end}}{{else}}  Unknown (data too short){{end}}

[OBD PROGRAMMING STATUS]
----------------------------------------
{{if .Obd}}  {{upper .Obd.State}} ({{.Obd.Reason}}){{else}}  Unknown (data too short){{end}}

[PIN / KEY LEARNING CODE]
----------------------------------------
{{with .Pin}}  Location 0x{{printf "%03X" .PrimaryOffset}}: {{.Primary}}
  Location 0x{{printf "%03X" .SecondaryOffset}}: {{.Secondary}}
{{if .Matches}}
  ✓ PIN codes match

  >>> YOUR PIN: {{.Primary}} <<<{{else}}
  ⚠ WARNING: PIN codes do NOT match!{{end}}{{else}}  Unknown (data too short){{end}}

[ECU PAIRING CODE (Alarm Learning Code)]
----------------------------------------
{{with .Pairing}}  Location 0x{{printf "%03X" .PrimaryOffset}}: {{.Primary}}
  Location 0x{{printf "%03X" .SecondaryOffset}}: {{.Secondary}}
{{if .Matches}}
  ✓ Pairing codes match

  >>> ECU PAIRING: {{.Primary}} <<<{{else}}
  ⚠ WARNING: Pairing codes do NOT match!{{end}}{{else}}  Unknown (data too short){{end}}

[REMOTE CONTROL SLOTS]
----------------------------------------
{{- range .Slots}}
  Slot {{.Slot}}: {{.State}}
         {{.Data}}
{{- end}}

[COUNTER/SYNC REGION] {{span (region "SyncRegion")}}
----------------------------------------
{{with .Sync}}  {{.Data}}{{if .PatternFound}}
  ✓ Found sync pattern: B2 22 D4 at 0x{{printf "%03X" .PatternOffset}}{{end}}{{else}}  Unknown (data too short){{end}}

[CONFIGURATION COMPARISON]
----------------------------------------
{{with .ConfigMirror}}{{$a := region "ConfigBlockA"}}{{$b := region "ConfigBlockB"}}{{if deref .}}  ✓ Config blocks at 0x{{printf "%03X" $a.Offset}} and 0x{{printf "%03X" $b.Offset}} match (normal){{else}}  ⚠ Config blocks at 0x{{printf "%03X" $a.Offset}} and 0x{{printf "%03X" $b.Offset}} differ (unusual){{end}}{{else}}  Unknown (data too short){{end}}

[KEY DATA REGION] {{span (region "KeyData")}}
----------------------------------------
{{indent (.HexDump (region "KeyData"))}}

[TRANSPONDER REGION] {{span (region "Transponder")}}
----------------------------------------
{{indent (.HexDump (region "Transponder"))}}

{{with .PinDetail}}[PIN REGION DETAIL] {{span .}}
----------------------------------------
{{indent ($.HexDump .)}}{{end}}
{{if .Full}}
{{template "rule"}}
FULL HEX DUMP
{{template "rule"}}
{{.FullDump}}
{{end}}`))

type textView struct {
	*Report
	Full bool
}

// WriteText renders the human readable report. full appends a hex dump of
// the whole image.
func WriteText(w io.Writer, r *Report, full bool) error {
	return analysisTemplate.Execute(w, textView{Report: r, Full: full})
}

// Write renders r in the requested format.
func Write(w io.Writer, r *Report, format Format, full bool) error {
	switch format {
	case FormatText:
		return WriteText(w, r, full)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatCBOR:
		b, err := cbor.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "encoding CBOR report")
		}
		_, err = w.Write(b)
		return err
	}
	return errors.Errorf("unknown report format %q", format)
}
