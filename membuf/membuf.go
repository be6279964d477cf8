// Package membuf holds a sparse memory image assembled from out-of-order
// writes, such as the data records of an Intel HEX dump.
package membuf

import (
	"fmt"
	"io"
	"sort"
)

// ErasedByte is what an erased EEPROM cell reads back as.
const ErasedByte = 0xFF

type offsetBuffer struct {
	offset int64
	buf    []byte
}

func (b *offsetBuffer) end() int64 {
	return b.offset + int64(len(b.buf))
}

type MemBuffer struct {
	buffers []*offsetBuffer

	// Fill is returned for addresses no write has covered.
	Fill byte
}

func NewMemBuffer() *MemBuffer {
	return &MemBuffer{Fill: ErasedByte}
}

// findWriteBuffer returns the buffer that off falls in or directly extends.
func (m *MemBuffer) findWriteBuffer(off int64) *offsetBuffer {
	for _, buf := range m.buffers {
		if off >= buf.offset && off <= buf.end() {
			return buf
		}
	}

	return nil
}

func (m *MemBuffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative write offset %d", off)
	}

	writeBuf := m.findWriteBuffer(off)
	if writeBuf == nil {
		writeBuf = &offsetBuffer{
			offset: off,
		}
		m.buffers = append(m.buffers, writeBuf)
		sort.Slice(m.buffers, func(i, j int) bool {
			return m.buffers[i].offset < m.buffers[j].offset
		})
	}

	rel := off - writeBuf.offset
	if need := rel + int64(len(p)); need > int64(len(writeBuf.buf)) {
		writeBuf.buf = append(writeBuf.buf, make([]byte, need-int64(len(writeBuf.buf)))...)
	}
	copy(writeBuf.buf[rel:], p)

	m.absorb(writeBuf, off, off+int64(len(p)))
	return len(p), nil
}

// absorb merges buffers that the grown buffer now reaches. Bytes inside the
// just written range [wBegin, wEnd) keep the new value.
func (m *MemBuffer) absorb(cur *offsetBuffer, wBegin, wEnd int64) {
	kept := m.buffers[:0]
	for _, buf := range m.buffers {
		if buf == cur || buf.offset < cur.offset || buf.offset > cur.end() {
			kept = append(kept, buf)
			continue
		}

		if end := buf.end(); end > cur.end() {
			cur.buf = append(cur.buf, make([]byte, end-cur.end())...)
		}
		for i, b := range buf.buf {
			abs := buf.offset + int64(i)
			if abs >= wBegin && abs < wEnd {
				continue
			}
			cur.buf[abs-cur.offset] = b
		}
	}
	m.buffers = kept
}

// ReadAt fills p from the written segments, using Fill for gaps. Reads never
// run short.
func (m *MemBuffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative read offset %d", off)
	}

	for i := range p {
		p[i] = m.Fill
	}

	end := off + int64(len(p))
	for _, buf := range m.buffers {
		left := max(off, buf.offset)
		right := min(end, buf.end())
		if left >= right {
			continue
		}
		copy(p[left-off:right-off], buf.buf[left-buf.offset:right-buf.offset])
	}

	return len(p), nil
}

// Len is one past the highest written address.
func (m *MemBuffer) Len() int64 {
	var lastByte int64
	for _, buf := range m.buffers {
		if e := buf.end(); e > lastByte {
			lastByte = e
		}
	}
	return lastByte
}

// Bytes flattens the buffer to size bytes. A size of zero or less uses Len.
func (m *MemBuffer) Bytes(size int64) []byte {
	if size <= 0 {
		size = m.Len()
	}
	b := make([]byte, size)
	_, _ = m.ReadAt(b, 0)
	return b
}

// Reader streams the first size bytes, gaps filled. A size of zero or less
// uses Len.
func (m *MemBuffer) Reader(size int64) io.Reader {
	if size <= 0 {
		size = m.Len()
	}
	return io.NewSectionReader(m, 0, size)
}

var _ io.WriterAt = (*MemBuffer)(nil)
var _ io.ReaderAt = (*MemBuffer)(nil)
