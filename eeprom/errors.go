package eeprom

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInsufficientData is returned when the image is too short to hold a
	// requested region. It is field-local: other regions may still be read.
	ErrInsufficientData = errors.New("insufficient data")

	ErrInvalidSlot       = errors.New("invalid slot")
	ErrInvalidCodeLength = errors.New("invalid code length")
	ErrInvalidCode       = errors.New("invalid code")
	ErrUnknownProfile    = errors.New("unknown patch profile")
)

// InsufficientDataError names the region that could not be read.
type InsufficientDataError struct {
	Region Region
	Have   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need %d bytes, have %d",
		e.Region.Name, e.Region.End(), e.Have)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// InvalidSlotError indicates a slot number outside 1..NumSlots.
type InvalidSlotError struct {
	Slot int
}

func (e *InvalidSlotError) Error() string {
	return fmt.Sprintf("slot must be 1-%d, got %d", NumSlots, e.Slot)
}

func (e *InvalidSlotError) Is(target error) bool {
	return target == ErrInvalidSlot
}

// InvalidCodeLengthError indicates a remote code that is not SlotLength bytes.
// Length counts hex characters when Hex is set and bytes otherwise.
type InvalidCodeLengthError struct {
	Length int
	Hex    bool
}

func (e *InvalidCodeLengthError) Error() string {
	if e.Hex {
		return fmt.Sprintf("code must be exactly %d hex characters, got %d characters",
			SlotLength*2, e.Length)
	}
	return fmt.Sprintf("code must be exactly %d bytes, got %d bytes", SlotLength, e.Length)
}

func (e *InvalidCodeLengthError) Is(target error) bool {
	return target == ErrInvalidCodeLength
}
