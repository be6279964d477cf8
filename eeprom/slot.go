package eeprom

const (
	NumSlots   = 4
	SlotLength = 12
)

var slotTags = [NumSlots]Tag{TagRemoteSlot1, TagRemoteSlot2, TagRemoteSlot3, TagRemoteSlot4}

// SlotState is the programmed/empty classification of a remote slot.
type SlotState int

const (
	SlotProgrammed SlotState = iota
	SlotEmptyUnprogrammed
	SlotEmptyAllZero
	SlotEmptyAllFF
)

func (s SlotState) String() string {
	switch s {
	case SlotEmptyUnprogrammed:
		return "EMPTY (unprogrammed pattern)"
	case SlotEmptyAllZero:
		return "EMPTY (all zeros)"
	case SlotEmptyAllFF:
		return "EMPTY (all 0xFF)"
	default:
		return "PROGRAMMED"
	}
}

func (s SlotState) Empty() bool {
	return s != SlotProgrammed
}

// SlotRecord is one remote slot as read from an image.
type SlotRecord struct {
	Slot   int
	Offset int
	Data   []byte
	State  SlotState
}

// SlotRegion resolves a 1-based slot number to its region.
func SlotRegion(slot int) (Region, error) {
	if slot < 1 || slot > NumSlots {
		return Region{}, &InvalidSlotError{Slot: slot}
	}
	return Lookup(slotTags[slot-1]), nil
}

func ClassifySlot(img Image, slot int) (SlotRecord, error) {
	r, err := SlotRegion(slot)
	if err != nil {
		return SlotRecord{}, err
	}
	data, err := img.Field(r)
	if err != nil {
		return SlotRecord{}, err
	}
	return SlotRecord{
		Slot:   slot,
		Offset: r.Offset,
		Data:   data,
		State:  classifySlotData(data),
	}, nil
}

// ClassifySlots classifies every slot the image is long enough to hold.
func ClassifySlots(img Image) []SlotRecord {
	var records []SlotRecord
	for slot := 1; slot <= NumSlots; slot++ {
		rec, err := ClassifySlot(img, slot)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// A factory-blank slot is filled from a three byte alphabet rather than a
// single erased value.
func isUnprogrammedByte(b byte) bool {
	return b == 0xFF || b == 0xB7 || b == 0x06
}

func classifySlotData(data []byte) SlotState {
	subset := true
	for _, b := range data {
		if !isUnprogrammedByte(b) {
			subset = false
			break
		}
	}

	switch {
	case subset && !allEqual(data, 0xFF):
		return SlotEmptyUnprogrammed
	case allEqual(data, 0x00):
		return SlotEmptyAllZero
	case allEqual(data, 0xFF):
		return SlotEmptyAllFF
	default:
		return SlotProgrammed
	}
}
