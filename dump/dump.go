// Package dump reads and writes EEPROM dump files as produced by CH341A style
// programmer software: raw binary or Intel HEX text.
package dump

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/anupcshan/acutool/intelhex"
	"github.com/anupcshan/acutool/membuf"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Format string

const (
	FormatAuto Format = ""
	FormatBin  Format = "bin"
	FormatHex  Format = "hex"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatBin, FormatHex:
		return f, nil
	}
	return "", errors.Errorf("unknown dump format %q (want bin or hex)", s)
}

// FormatForPath picks hex for .hex/.ihex/.ihx files and bin otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex", ".ihx":
		return FormatHex
	}
	return FormatBin
}

// looksLikeHex reports whether data is Intel HEX text. A binary dump that
// happens to start with ':' would also need every byte to be printable.
func looksLikeHex(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != ':' {
		return false
	}
	for _, b := range data {
		switch {
		case b == ':' || b == '\r' || b == '\n' || b == ' ' || b == '\t':
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}

// Decode turns file contents into raw image bytes.
func Decode(data []byte) ([]byte, error) {
	if !looksLikeHex(data) {
		return data, nil
	}

	buf := membuf.NewMemBuffer()
	// Records keep their absolute addresses; a dump whose leading rows were
	// left out as erased reads back with 0xFF there.
	parser := intelhex.NewParser(bytes.NewReader(data), buf, intelhex.WithDisableCompactOutput())
	if err := parser.Parse(); err != nil {
		return nil, errors.Wrap(err, "parsing Intel HEX")
	}
	return buf.Bytes(0), nil
}

// Load reads a dump file in either format.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return raw, nil
}

// LoadImage is Load followed by eeprom.New.
func LoadImage(path string) (eeprom.Image, error) {
	raw, err := Load(path)
	if err != nil {
		return eeprom.Image{}, err
	}
	return eeprom.New(raw), nil
}

// Encode renders raw image bytes in the given format.
func Encode(w io.Writer, data []byte, format Format) error {
	switch format {
	case FormatHex:
		enc := intelhex.NewEncoder(bytes.NewReader(data), w, intelhex.DataRecords(int64(len(data)), intelhex.DefaultRecordWidth))
		return enc.EncodeRecords()
	case FormatBin, FormatAuto:
		_, err := w.Write(data)
		return err
	}
	return errors.Errorf("unknown dump format %q", format)
}

// Save writes data to path atomically. FormatAuto picks the format from the
// file extension.
func Save(path string, data []byte, format Format) error {
	if format == FormatAuto {
		format = FormatForPath(path)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, data, format); err != nil {
		return err
	}
	return errors.Wrapf(atomicWriteFile(path, buf.Bytes(), 0644), "saving %s", path)
}

// Backup copies path to a uniquely named sibling and returns its name.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backupPath := path + "." + uuid.NewString() + ".bak"
	if err := atomicWriteFile(backupPath, data, 0644); err != nil {
		return "", errors.Wrapf(err, "backing up %s", path)
	}
	return backupPath, nil
}

// atomicWriteFile writes data to a file atomically using a temp file in the same directory.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
