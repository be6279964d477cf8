package eeprom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(v byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}

func TestClassifySlot(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		state SlotState
	}{
		{"all ff", repeat(0xFF, SlotLength), SlotEmptyAllFF},
		{"unprogrammed pattern", blankSlot, SlotEmptyUnprogrammed},
		{"all b7", repeat(0xB7, SlotLength), SlotEmptyUnprogrammed},
		{"all zero", repeat(0x00, SlotLength), SlotEmptyAllZero},
		{"programmed", []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB}, SlotProgrammed},
		{"pattern with zero", append([]byte{0x00}, blankSlot[1:]...), SlotProgrammed},
		{"remote code", sampleRemote, SlotProgrammed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for slot := 1; slot <= NumSlots; slot++ {
				b := sampleDump()
				r, err := SlotRegion(slot)
				require.NoError(t, err)
				copy(b[r.Offset:], tt.data)

				rec, err := ClassifySlot(New(b), slot)
				require.NoError(t, err)
				assert.Equal(t, tt.state, rec.State, "slot %d", slot)
				assert.Equal(t, slot, rec.Slot)
				assert.Equal(t, r.Offset, rec.Offset)
				assert.Equal(t, tt.data, rec.Data)
			}
		})
	}
}

func TestSlotOffsets(t *testing.T) {
	for slot, off := range map[int]int{1: 0x100, 2: 0x10C, 3: 0x118, 4: 0x124} {
		r, err := SlotRegion(slot)
		require.NoError(t, err)
		assert.Equal(t, off, r.Offset)
		assert.Equal(t, SlotLength, r.Length)
	}
}

func TestClassifySlotInvalid(t *testing.T) {
	for _, slot := range []int{-1, 0, 5} {
		_, err := ClassifySlot(sampleImage(), slot)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	}

	_, err := ClassifySlot(New(sampleDump()[:0x12F]), 4)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = ClassifySlot(New(sampleDump()[:0x130]), 4)
	assert.NoError(t, err)
}

func TestClassifySlots(t *testing.T) {
	records := ClassifySlots(sampleImage())
	require.Len(t, records, NumSlots)
	assert.Equal(t, SlotProgrammed, records[0].State)
	for _, rec := range records[1:] {
		assert.True(t, rec.State.Empty())
	}

	assert.Len(t, ClassifySlots(New(sampleDump()[:0x120])), 2)
}

func TestSlotStateString(t *testing.T) {
	assert.Equal(t, "PROGRAMMED", SlotProgrammed.String())
	assert.Equal(t, "EMPTY (all 0xFF)", SlotEmptyAllFF.String())
}
