package eeprom

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Size is the byte count of a 93LC66 dump.
const Size = 512

// Tag identifies a named region of the image.
type Tag int

const (
	TagPartNumber Tag = iota
	TagConfigBlockA
	TagConfigBlockB
	TagObdFlags
	TagObdFlagWindow1
	TagObdFlagWindow2
	TagKeyData
	TagAuthBypass
	TagTransponder
	TagUnlockData
	TagRemoteSlots
	TagRemoteSlot1
	TagRemoteSlot2
	TagRemoteSlot3
	TagRemoteSlot4
	TagSyncRegion
	TagPinPrimary
	TagPairingPrimary
	TagPinSecondary
	TagPairingSecondary
)

// Region is a fixed (offset, length) range of the image.
type Region struct {
	Tag    Tag
	Name   string
	Label  string
	Offset int
	Length int
}

// End returns the offset just past the last byte of the region.
func (r Region) End() int {
	return r.Offset + r.Length
}

func (r Region) Contains(off int) bool {
	return off >= r.Offset && off < r.End()
}

// Within reports whether an image of the given length covers the region.
func (r Region) Within(size int) bool {
	return size >= r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("%s (0x%03X-0x%03X)", r.Name, r.Offset, r.End()-1)
}

// The only place in the module where literal offsets live.
var layout = []Region{
	{TagPartNumber, "PartNumber", "Part Number", 0x009, 6},
	{TagConfigBlockA, "ConfigBlockA", "Config Block A", 0x020, 48},
	{TagConfigBlockB, "ConfigBlockB", "Config Block B", 0x050, 48},
	{TagObdFlags, "ObdFlags", "OBD Flags ★", 0x080, 16},
	{TagObdFlagWindow1, "ObdFlagWindow1", "OBD Flags ★ (window 1)", 0x080, 2},
	{TagObdFlagWindow2, "ObdFlagWindow2", "OBD Flags ★ (window 2)", 0x083, 2},
	{TagKeyData, "KeyData", "Key Data", 0x090, 32},
	{TagAuthBypass, "AuthBypass", "Auth Bypass ★", 0x0A0, 16},
	{TagTransponder, "Transponder", "Transponder", 0x0B0, 48},
	{TagUnlockData, "UnlockData", "Unlock Data ★", 0x0B0, 7},
	{TagRemoteSlots, "RemoteSlots", "Remote Slots", 0x100, 96},
	{TagRemoteSlot1, "RemoteSlot1", "Remote Slot 1", 0x100, SlotLength},
	{TagRemoteSlot2, "RemoteSlot2", "Remote Slot 2", 0x10C, SlotLength},
	{TagRemoteSlot3, "RemoteSlot3", "Remote Slot 3", 0x118, SlotLength},
	{TagRemoteSlot4, "RemoteSlot4", "Remote Slot 4", 0x124, SlotLength},
	{TagSyncRegion, "SyncRegion", "Sync Region", 0x1B0, 16},
	{TagPinPrimary, "PinPrimary", "PIN Code", 0x1EE, 3},
	{TagPairingPrimary, "PairingPrimary", "ECU Pairing", 0x1F1, 6},
	{TagPinSecondary, "PinSecondary", "PIN Code (mirror)", 0x1F7, 3},
	{TagPairingSecondary, "PairingSecondary", "ECU Pairing (mirror)", 0x1FA, 6},
}

var byTag = func() map[Tag]Region {
	m := make(map[Tag]Region, len(layout))
	for _, r := range layout {
		m[r.Tag] = r
	}
	return m
}()

// Regions returns a copy of the layout table ordered by offset, widest first
// where regions share an offset.
func Regions() []Region {
	regions := slices.Clone(layout)
	slices.SortStableFunc(regions, func(a, b Region) int {
		if a.Offset != b.Offset {
			return a.Offset - b.Offset
		}
		return b.Length - a.Length
	})
	return regions
}

// Lookup returns the region for tag. It panics on an unknown tag since the
// table is fixed at compile time.
func Lookup(tag Tag) Region {
	r, ok := byTag[tag]
	if !ok {
		panic(fmt.Sprintf("eeprom: no region for tag %d", tag))
	}
	return r
}

// LabelAt returns the label of the most specific region containing off, or
// "" if off lies outside every named region.
func LabelAt(off int) string {
	var best *Region
	for i := range layout {
		r := &layout[i]
		if !r.Contains(off) {
			continue
		}
		if best == nil || r.Length < best.Length {
			best = r
		}
	}
	if best == nil {
		return ""
	}
	return best.Label
}
