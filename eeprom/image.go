// Package eeprom decodes, checks, patches and compares the 512 byte 93LC66
// image of a 986/996 alarm control unit. It performs no I/O.
package eeprom

import (
	"io"
)

// Image is an EEPROM dump. It owns a private copy of its bytes, so callers
// may reuse the slice they built it from.
type Image struct {
	data []byte
}

func New(b []byte) Image {
	data := make([]byte, len(b))
	copy(data, b)
	return Image{data: data}
}

func (img Image) Len() int {
	return len(img.data)
}

// Bytes returns a copy of the image contents.
func (img Image) Bytes() []byte {
	b := make([]byte, len(img.data))
	copy(b, img.data)
	return b
}

func (img Image) Clone() Image {
	return New(img.data)
}

// Field returns a copy of the bytes covered by r.
func (img Image) Field(r Region) ([]byte, error) {
	if !r.Within(len(img.data)) {
		return nil, &InsufficientDataError{Region: r, Have: len(img.data)}
	}
	b := make([]byte, r.Length)
	copy(b, img.data[r.Offset:r.End()])
	return b, nil
}

func (img Image) field(tag Tag) ([]byte, error) {
	return img.Field(Lookup(tag))
}

func (img Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if off >= int64(len(img.data)) {
		return 0, io.EOF
	}
	n := copy(p, img.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

var _ io.ReaderAt = Image{}
