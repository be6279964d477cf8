package eeprom

import (
	"encoding/hex"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// ProfileWrite is a literal payload for one region.
type ProfileWrite struct {
	Region  Region
	Payload []byte
}

// Profile is a named set of region writes that puts the module into a known
// state.
type Profile struct {
	Name    string
	Version int
	Writes  []ProfileWrite
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

var (
	// UnlockProfile enables OBD key programming. The values are the same on
	// every M534/M535 module seen so far.
	UnlockProfile = Profile{
		Name:    "unlock",
		Version: 1,
		Writes: []ProfileWrite{
			{Lookup(TagObdFlags), mustHex("F6 0A 00 F6 0A 00 75 00 00 30 30 01 03 02 00 00")},
			{Lookup(TagAuthBypass), mustHex("00 00 8B 3B 3B 3B 3B EB 3B 3B E6 3B 64 A0 A0 3D")},
			{Lookup(TagUnlockData), mustHex("3D 85 E5 E5 E5 63 0C")},
		},
	}

	// LockProfile restores a typical locked state. Factory images vary
	// slightly between modules.
	LockProfile = Profile{
		Name:    "lock",
		Version: 1,
		Writes: []ProfileWrite{
			{Lookup(TagObdFlags), mustHex("00 00 00 55 55 00 50 75 30 50 03 30 00 05 00 00")},
			{Lookup(TagAuthBypass), mustHex("00 00 7A 7A 75 7A 75 73 75 75 7A 7A 00 00 00 00")},
			{Lookup(TagUnlockData), mustHex("00 00 00 00 00 00 4C")},
		},
	}
)

func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(name) {
	case UnlockProfile.Name:
		return UnlockProfile, nil
	case LockProfile.Name:
		return LockProfile, nil
	}
	return Profile{}, errors.Wrapf(ErrUnknownProfile, "%q", name)
}

// Mask returns the set of offsets the profile writes.
func (p Profile) Mask() *bitset.BitSet {
	mask := bitset.New(Size)
	for _, w := range p.Writes {
		for off := w.Region.Offset; off < w.Region.End(); off++ {
			mask.Set(uint(off))
		}
	}
	return mask
}

// ApplyProfile returns a copy of img with every profile region overwritten.
// It does not re-run any consistency check.
func ApplyProfile(img Image, p Profile) (Image, error) {
	for _, w := range p.Writes {
		if !w.Region.Within(img.Len()) {
			return Image{}, &InsufficientDataError{Region: w.Region, Have: img.Len()}
		}
	}

	out := img.Clone()
	for _, w := range p.Writes {
		copy(out.data[w.Region.Offset:w.Region.End()], w.Payload)
	}
	return out, nil
}

// SwapBytePairs exchanges the bytes of every 16-bit word. A trailing odd
// byte is left where it is. Applying it twice gives back the input.
func SwapBytePairs(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

// ProgramRemoteSlot writes a 12 byte remote code into slot, optionally
// byte-pair swapped for the word organised chip. Programmed slots are
// overwritten without complaint.
func ProgramRemoteSlot(img Image, slot int, code []byte, byteSwap bool) (Image, error) {
	r, err := SlotRegion(slot)
	if err != nil {
		return Image{}, err
	}
	if len(code) != SlotLength {
		return Image{}, &InvalidCodeLengthError{Length: len(code)}
	}
	if !r.Within(img.Len()) {
		return Image{}, &InsufficientDataError{Region: r, Have: img.Len()}
	}

	if byteSwap {
		code = SwapBytePairs(code)
	}

	out := img.Clone()
	copy(out.data[r.Offset:r.End()], code)
	return out, nil
}

// ParseRemoteCode parses the 24 character code printed on a remote's barcode
// tag. Spaces, dashes, colons and dots between digits are ignored.
func ParseRemoteCode(s string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", "-", "", ":", "", ".", "").Replace(s)
	clean = strings.ToUpper(clean)

	if len(clean) != SlotLength*2 {
		return nil, &InvalidCodeLengthError{Length: len(clean), Hex: true}
	}

	code, err := hex.DecodeString(clean)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCode, "%q: %s", clean, err)
	}
	return code, nil
}
