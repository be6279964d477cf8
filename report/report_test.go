package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDump() []byte {
	b := make([]byte, eeprom.Size)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	copy(b[0x009:], []byte{0x99, 0x66, 0x18, 0x26, 0x00, 0x70})
	copy(b[0x050:0x080], b[0x020:0x050])
	copy(b[0x080:], []byte{0x00, 0x00, 0x00, 0x55, 0x55, 0x00})
	copy(b[0x100:], []byte{0x40, 0x05, 0x90, 0x50, 0x23, 0x6E, 0x31, 0x7F, 0x29, 0x18, 0xD8, 0x21})
	for _, off := range []int{0x10C, 0x118, 0x124} {
		copy(b[off:], []byte{0xFF, 0xB7, 0x06, 0xFF, 0xFF, 0xB7, 0x06, 0x06, 0xFF, 0xB7, 0xFF, 0x06})
	}
	copy(b[0x1B4:], []byte{0xB2, 0x22, 0xD4})
	for _, off := range []int{0x1EE, 0x1F7} {
		copy(b[off:], []byte{0x12, 0x34, 0x56})
	}
	for _, off := range []int{0x1F1, 0x1FA} {
		copy(b[off:], []byte{0xA1, 0xB2, 0xC3, 0xD4, 0xE5, 0xF6})
	}
	return b
}

func TestAnalyze(t *testing.T) {
	r := Analyze("sample.bin", eeprom.New(sampleDump()))

	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 512, r.Size)
	assert.Empty(t, r.Unavailable)
	assert.Empty(t, r.Warnings)

	require.NotNil(t, r.PartNumber)
	assert.Equal(t, "996.618.260.07", r.PartNumber.Decoded)
	require.NotNil(t, r.Obd)
	assert.Equal(t, "locked", r.Obd.State)
	require.NotNil(t, r.Pin)
	assert.True(t, r.Pin.Matches)
	assert.Equal(t, "12 34 56", r.Pin.Primary)
	assert.Equal(t, 0x1F7, r.Pin.SecondaryOffset)
	require.NotNil(t, r.Pairing)
	assert.True(t, r.Pairing.Matches)
	require.Len(t, r.Slots, 4)
	assert.False(t, r.Slots[0].Empty)
	assert.True(t, r.Slots[3].Empty)
	require.NotNil(t, r.Sync)
	assert.True(t, r.Sync.PatternFound)
	assert.Equal(t, 0x1B4, r.Sync.PatternOffset)
	require.NotNil(t, r.ConfigMirror)
	assert.True(t, *r.ConfigMirror)
}

func TestAnalyzeTruncated(t *testing.T) {
	r := Analyze("short.bin", eeprom.New(sampleDump()[:0x120]))

	assert.NotNil(t, r.PartNumber)
	assert.NotNil(t, r.Obd)
	assert.NotNil(t, r.ConfigMirror)
	assert.Len(t, r.Slots, 2)
	assert.Nil(t, r.Pin)
	assert.Nil(t, r.Pairing)
	assert.Nil(t, r.Sync)

	for _, field := range []string{"pin", "pairing", "sync", "slot3", "slot4"} {
		assert.Contains(t, r.Unavailable[field], "insufficient data", field)
	}
	require.NotEmpty(t, r.Warnings)
	assert.Equal(t, eeprom.WarnWrongSize, r.Warnings[0].Kind)
}

func TestWriteText(t *testing.T) {
	r := Analyze("sample.bin", eeprom.New(sampleDump()))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatText, false))
	out := buf.String()

	for _, want := range []string{
		"File: sample.bin",
		"99 66 18 26 00 70 -> 996.618.260.07",
		"LOCKED (",
		">>> YOUR PIN: 12 34 56 <<<",
		">>> ECU PAIRING: A1 B2 C3 D4 E5 F6 <<<",
		"Slot 1: PROGRAMMED",
		"Slot 2: EMPTY (unprogrammed pattern)",
		"✓ Found sync pattern: B2 22 D4 at 0x1B4",
		"✓ Config blocks at 0x020 and 0x050 match (normal)",
		"  0090: ",
		"  01E0: ",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "FULL HEX DUMP")

	buf.Reset()
	require.NoError(t, Write(&buf, r, FormatText, true))
	assert.Contains(t, buf.String(), "FULL HEX DUMP")
	assert.Contains(t, buf.String(), "01F0: ")
}

func TestWriteTextMismatchAndShort(t *testing.T) {
	b := sampleDump()
	b[0x1EE] = 0x00
	b[0x021]++
	r := Analyze("bad.bin", eeprom.New(b))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r, false))
	assert.Contains(t, buf.String(), "⚠ WARNING: PIN codes do NOT match!")
	assert.Contains(t, buf.String(), "differ (unusual)")

	buf.Reset()
	require.NoError(t, WriteText(&buf, Analyze("tiny.bin", eeprom.New(make([]byte, 4))), false))
	assert.Contains(t, buf.String(), "Unknown (data too short)")
	assert.Contains(t, buf.String(), "⚠ WARNING: size is 4 bytes, expected 512")
}

func TestWriteJSONAndCBOR(t *testing.T) {
	r := Analyze("sample.bin", eeprom.New(sampleDump()))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, FormatJSON, false))
	var fromJSON Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, r.ID, fromJSON.ID)
	assert.Equal(t, r.Pin, fromJSON.Pin)

	buf.Reset()
	require.NoError(t, Write(&buf, r, FormatCBOR, false))
	var fromCBOR Report
	require.NoError(t, cbor.Unmarshal(buf.Bytes(), &fromCBOR))
	assert.Equal(t, r.Slots, fromCBOR.Slots)
	assert.Equal(t, r.Obd, fromCBOR.Obd)

	assert.Error(t, Write(&buf, r, Format("xml"), false))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestFormatHex(t *testing.T) {
	out := FormatHex([]byte("ABC\x00"), 0x1E0)
	assert.Equal(t, "01E0: 41 42 43 00"+strings.Repeat(" ", 38)+"ABC.", out)

	lines := strings.Split(FormatHex(make([]byte, 20), 0), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "0010: 00 00 00 00 "))
}

func TestCompare(t *testing.T) {
	a := eeprom.New(sampleDump())
	b, err := eeprom.ApplyProfile(a, eeprom.UnlockProfile)
	require.NoError(t, err)

	c := Compare("a.bin", a, "b.bin", b, 5)
	assert.False(t, c.LengthMismatch)
	assert.Greater(t, c.Total, 5)
	assert.Len(t, c.Differences, 5)
	assert.Equal(t, c.Total-5, c.Truncated())
	assert.Equal(t, 0x080, c.Differences[0].Offset)

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, c, FormatText))
	assert.Contains(t, buf.String(), "0x0080   0x00   0xF6   OBD Flags ★ (window 1)")
	assert.Contains(t, buf.String(), "more differences")
	assert.Contains(t, buf.String(), "Auth Bypass ★")

	buf.Reset()
	require.NoError(t, WriteComparison(&buf, c, FormatJSON))
	var fromJSON Comparison
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, c.Differences, fromJSON.Differences)
}

func TestCompareIdenticalAndSizes(t *testing.T) {
	a := eeprom.New(sampleDump())

	var buf bytes.Buffer
	require.NoError(t, WriteComparisonText(&buf, Compare("a", a, "b", a, 0)))
	assert.Contains(t, buf.String(), "✓ Files are identical!")

	buf.Reset()
	short := eeprom.New(sampleDump()[:256])
	c := Compare("a", a, "short", short, 0)
	assert.True(t, c.LengthMismatch)
	assert.Zero(t, c.Total)
	require.NoError(t, WriteComparisonText(&buf, c))
	assert.Contains(t, buf.String(), "different sizes")
	assert.NotContains(t, buf.String(), "identical")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	b := sampleDump()
	b[0x1EE] = 0x00
	m.Observe(Analyze("bad.bin", eeprom.New(b)))
	m.Observe(Analyze("good.bin", eeprom.New(sampleDump())))

	assert.Equal(t, 0.0, testutil.ToFloat64(m.pinMatch.WithLabelValues("bad.bin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pinMatch.WithLabelValues("good.bin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.obdState.WithLabelValues("good.bin", "locked")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.obdState.WithLabelValues("good.bin", "unlocked")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.slotEmpty.WithLabelValues("good.bin", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotEmpty.WithLabelValues("good.bin", "2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.warnings.WithLabelValues("bad.bin", string(eeprom.WarnPinMismatch))))

	a := eeprom.New(sampleDump())
	m.ObserveComparison(Compare("a", a, "b", eeprom.New(b), 0))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.diffBytes.WithLabelValues("a", "b")))

	path := filepath.Join(t.TempDir(), "acutool.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `acutool_pin_match{dump="good.bin"} 1`)
}
