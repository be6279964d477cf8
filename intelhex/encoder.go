package intelhex

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// DefaultRecordWidth is the data bytes per record most programmer software
// writes.
const DefaultRecordWidth = 16

type Encoder struct {
	r io.ReaderAt
	w io.Writer

	Records []Record
}

// NewEncoder replays records, reading data record bodies from r at their
// ReadOffset. Use DataRecords to frame an image that was not parsed from hex.
func NewEncoder(r io.ReaderAt, w io.Writer, records []Record) *Encoder {
	return &Encoder{
		r:       r,
		w:       w,
		Records: records,
	}
}

// DataRecords frames size bytes starting at address 0 as data records of at
// most width bytes, followed by an EOF record.
func DataRecords(size int64, width int) []Record {
	if width <= 0 || width > 0xFF {
		width = DefaultRecordWidth
	}

	var records []Record
	var base int64 = -1
	for off := int64(0); off < size; off += int64(width) {
		if hi := off >> 16; hi != base {
			if hi > 0 {
				body := make([]byte, 2)
				binary.BigEndian.PutUint16(body, uint16(hi))
				records = append(records, Record{Length: 2, RecType: RecExtLinear, Body: body})
			}
			base = hi
		}

		n := min(int64(width), size-off)
		records = append(records, Record{
			Length:     uint8(n),
			Offset:     uint16(off & 0xFFFF),
			RecType:    RecData,
			ReadOffset: off,
		})
	}

	return append(records, Record{RecType: RecEOF})
}

func (e *Encoder) EncodeRecords() error {
	for _, record := range e.Records {
		if err := e.encodeRecord(record); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeRecord(r Record) error {
	raw := make([]byte, 4, 5+int(r.Length))
	raw[0] = r.Length
	binary.BigEndian.PutUint16(raw[1:3], r.Offset)
	raw[3] = r.RecType

	body := make([]byte, r.Length)

	switch r.RecType {
	case RecData:
		n, err := e.r.ReadAt(body, r.ReadOffset)
		if n < len(body) {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
	case RecEOF:
	default:
		if len(r.Body) != int(r.Length) {
			return fmt.Errorf("record type %d: body has %d bytes, header says %d", r.RecType, len(r.Body), r.Length)
		}
		body = r.Body
	}

	raw = append(raw, body...)
	raw = append(raw, Checksum(raw))

	_, err := fmt.Fprintf(e.w, ":%s\n", strings.ToUpper(fmt.Sprintf("%x", raw)))
	return err
}
