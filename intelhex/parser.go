package intelhex

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	RecData         uint8 = 0
	RecEOF          uint8 = 1
	RecExtSegment   uint8 = 2
	RecStartSegment uint8 = 3
	RecExtLinear    uint8 = 4
	RecStartLinear  uint8 = 5
)

type Record struct {
	Length     uint8
	Offset     uint16
	RecType    uint8
	ReadOffset int64
	Body       []byte
}

type Parser struct {
	r *bufio.Reader
	w io.WriterAt

	outputOffset         int64
	sawData              bool
	baseAddress          uint32
	disableCompactOutput bool
	line                 int

	Records []Record

	eof bool
}

type ParserOptions struct {
	disableCompactOutput bool
}

type ParserOption func(*ParserOptions)

// WithDisableCompactOutput writes data at its absolute address instead of
// shifting the first data record to offset 0.
func WithDisableCompactOutput() ParserOption {
	return func(o *ParserOptions) {
		o.disableCompactOutput = true
	}
}

func NewParser(r io.Reader, w io.WriterAt, opts ...ParserOption) *Parser {
	po := &ParserOptions{}
	for _, opt := range opts {
		opt(po)
	}
	return &Parser{
		r:                    bufio.NewReader(r),
		w:                    w,
		disableCompactOutput: po.disableCompactOutput,
	}
}

func (p *Parser) nextLine() (string, error) {
	for {
		line, err := p.r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			p.line++
			return line, nil
		}
		if err == io.EOF {
			return "", io.ErrUnexpectedEOF
		}
		if err != nil {
			return "", err
		}
	}
}

// https://en.wikipedia.org/wiki/Intel_HEX#Format
func (p *Parser) ReadRecord() error {
	line, err := p.nextLine()
	if err != nil {
		return err
	}

	if line[0] != ':' {
		return fmt.Errorf("line %d: unexpected mark byte %q", p.line, line[0])
	}

	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return fmt.Errorf("line %d: %w", p.line, err)
	}
	if len(raw) < 5 {
		return fmt.Errorf("line %d: record too short", p.line)
	}

	length := raw[0]
	offset := binary.BigEndian.Uint16(raw[1:3])
	recType := raw[3]

	if len(raw) != int(length)+5 {
		return fmt.Errorf("line %d: record length %d does not match %d data bytes", p.line, length, len(raw)-5)
	}

	body := raw[4 : 4+int(length)]
	checksum := raw[len(raw)-1]

	if checksum != Checksum(raw[:len(raw)-1]) {
		return fmt.Errorf("line %d: mismatched checksum", p.line)
	}

	var readOffset int64
	var copyBody bool

	switch recType {
	case RecData:
		readOffset = int64(p.baseAddress) + int64(offset)
		if !p.sawData && !p.disableCompactOutput {
			p.outputOffset = -readOffset
		}
		p.sawData = true

		readOffset += p.outputOffset
		if _, err := p.w.WriteAt(body, readOffset); err != nil {
			return err
		}
	case RecEOF:
		p.eof = true
	case RecExtSegment:
		copyBody = true
		if len(body) != 2 {
			return fmt.Errorf("line %d: extended segment address needs 2 bytes", p.line)
		}
		p.baseAddress = uint32(binary.BigEndian.Uint16(body)) << 4
	case RecExtLinear:
		copyBody = true
		if len(body) != 2 {
			return fmt.Errorf("line %d: extended linear address needs 2 bytes", p.line)
		}
		p.baseAddress = uint32(binary.BigEndian.Uint16(body)) << 16
	case RecStartSegment, RecStartLinear:
		copyBody = true
	default:
		return fmt.Errorf("line %d: unknown record type %d", p.line, recType)
	}

	if !copyBody {
		body = nil
	}

	p.Records = append(p.Records, Record{
		Length:     length,
		Offset:     offset,
		RecType:    recType,
		ReadOffset: readOffset,
		Body:       body,
	})

	return nil
}

func (p *Parser) HasNext() bool {
	return !p.eof
}

// Parse reads records until the EOF record.
func (p *Parser) Parse() error {
	for p.HasNext() {
		if err := p.ReadRecord(); err != nil {
			return err
		}
	}
	return nil
}

// Checksum is the two's complement of the byte sum.
func Checksum(b []byte) uint8 {
	var sum uint8
	for _, v := range b {
		sum += v
	}
	return ^sum + 1
}
