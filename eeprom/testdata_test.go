package eeprom

var (
	samplePin     = []byte{0x12, 0x34, 0x56}
	samplePairing = []byte{0xA1, 0xB2, 0xC3, 0xD4, 0xE5, 0xF6}
	sampleRemote  = []byte{0x40, 0x05, 0x90, 0x50, 0x23, 0x6E, 0x31, 0x7F, 0x29, 0x18, 0xD8, 0x21}
	blankSlot     = []byte{0xFF, 0xB7, 0x06, 0xFF, 0xFF, 0xB7, 0x06, 0x06, 0xFF, 0xB7, 0xFF, 0x06}
)

// sampleDump returns a plausible locked 512 byte dump with one programmed
// remote.
func sampleDump() []byte {
	b := make([]byte, Size)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}

	copy(b[0x009:], []byte{0x99, 0x66, 0x18, 0x26, 0x00, 0x70})
	copy(b[0x050:0x080], b[0x020:0x050])
	copy(b[0x080:], []byte{0x00, 0x00, 0x00, 0x55, 0x55, 0x00})

	copy(b[0x100:], sampleRemote)
	copy(b[0x10C:], blankSlot)
	copy(b[0x118:], blankSlot)
	copy(b[0x124:], blankSlot)

	copy(b[0x1B4:], []byte{0xB2, 0x22, 0xD4})

	copy(b[0x1EE:], samplePin)
	copy(b[0x1F7:], samplePin)
	copy(b[0x1F1:], samplePairing)
	copy(b[0x1FA:], samplePairing)
	return b
}

func sampleImage() Image {
	return New(sampleDump())
}
