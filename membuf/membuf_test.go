package membuf

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGapsReadAsErased(t *testing.T) {
	m := NewMemBuffer()
	_, err := m.WriteAt([]byte{1, 2}, 2)
	require.NoError(t, err)
	_, err = m.WriteAt([]byte{5}, 6)
	require.NoError(t, err)

	assert.EqualValues(t, 7, m.Len())
	assert.Equal(t, []byte{0xFF, 0xFF, 1, 2, 0xFF, 0xFF, 5, 0xFF}, m.Bytes(8))
}

func TestContiguousWritesCoalesce(t *testing.T) {
	m := NewMemBuffer()
	for i := 0; i < 4; i++ {
		_, err := m.WriteAt([]byte{byte(i), byte(i)}, int64(i*2))
		require.NoError(t, err)
	}
	require.Len(t, m.buffers, 1)
	assert.Equal(t, []byte{0, 0, 1, 1, 2, 2, 3, 3}, m.Bytes(0))
}

func TestOutOfOrderWritesMerge(t *testing.T) {
	m := NewMemBuffer()
	_, err := m.WriteAt([]byte{3, 4}, 2)
	require.NoError(t, err)
	_, err = m.WriteAt([]byte{1, 2}, 0)
	require.NoError(t, err)

	require.Len(t, m.buffers, 1)
	assert.Equal(t, []byte{1, 2, 3, 4}, m.Bytes(0))
}

func TestOverwriteKeepsNewest(t *testing.T) {
	m := NewMemBuffer()
	_, err := m.WriteAt([]byte{1, 1, 1, 1}, 4)
	require.NoError(t, err)
	_, err = m.WriteAt([]byte{2, 2, 2}, 2)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xFF, 0xFF, 2, 2, 2, 1, 1, 1}, m.Bytes(0))
}

func TestReadAtPartialOverlap(t *testing.T) {
	m := NewMemBuffer()
	m.Fill = 0x00
	_, err := m.WriteAt([]byte{9, 8, 7}, 10)
	require.NoError(t, err)

	p := make([]byte, 4)
	n, err := m.ReadAt(p, 11)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{8, 7, 0, 0}, p)

	_, err = m.ReadAt(p, -1)
	assert.Error(t, err)
	_, err = m.WriteAt(p, -1)
	assert.Error(t, err)
}

func TestReader(t *testing.T) {
	m := NewMemBuffer()
	_, err := m.WriteAt([]byte{1, 2, 3}, 1)
	require.NoError(t, err)

	b, err := io.ReadAll(m.Reader(0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 1, 2, 3}, b)

	b, err = io.ReadAll(m.Reader(6))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 1, 2, 3, 0xFF, 0xFF}, b)
}
