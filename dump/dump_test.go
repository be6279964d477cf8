package dump

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() []byte {
	b := make([]byte, 512)
	for i := range b {
		b[i] = byte(i ^ 0x5A)
	}
	return b
}

func TestSaveLoadBin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	require.NoError(t, Save(path, testImage(), FormatAuto))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testImage(), onDisk)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testImage(), loaded)
}

func TestSaveLoadHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.hex")
	require.NoError(t, Save(path, testImage(), FormatAuto))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(onDisk), ":10000000"))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, testImage(), img.Bytes())
}

func TestHexContentDetectedRegardlessOfName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	require.NoError(t, Save(path, testImage(), FormatHex))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testImage(), loaded)
}

func TestDecodeKeepsRecordAddresses(t *testing.T) {
	// One record at 0x010, nothing before it.
	hexText := ":060010009966182600703D\n:00000001FF\n"

	raw, err := Decode([]byte(hexText))
	require.NoError(t, err)
	require.Len(t, raw, 0x16)
	assert.Equal(t, []byte{0x99, 0x66, 0x18, 0x26, 0x00, 0x70}, raw[0x10:0x16])
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 0x10), raw[:0x10])
}

func TestBinaryStartingWithColon(t *testing.T) {
	raw := testImage()
	raw[0] = ':'
	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	assert.True(t, os.IsNotExist(err))

	path := filepath.Join(t.TempDir(), "broken.hex")
	require.NoError(t, os.WriteFile(path, []byte(":0400000099661826C0\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orig.bin")
	require.NoError(t, os.WriteFile(path, testImage(), 0644))

	backupPath, err := Backup(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(backupPath, path+"."))
	assert.True(t, strings.HasSuffix(backupPath, ".bak"))

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, testImage(), data)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HEX")
	require.NoError(t, err)
	assert.Equal(t, FormatHex, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("srec")
	assert.Error(t, err)

	assert.Equal(t, FormatHex, FormatForPath("a/B.IHX"))
	assert.Equal(t, FormatBin, FormatForPath("a/b.rom"))
}
