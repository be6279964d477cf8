package eeprom

import (
	"bytes"
	"fmt"
	"strings"
)

// PairResult holds both copies of a redundant field.
type PairResult struct {
	Primary   []byte
	Secondary []byte
	Matches   bool
}

// Value returns the authoritative (primary) value, only if both copies agree.
func (p PairResult) Value() ([]byte, bool) {
	if !p.Matches {
		return nil, false
	}
	return p.Primary, true
}

func checkPair(img Image, primary, secondary Tag) (PairResult, error) {
	// Both regions are read before anything is reported so a short image
	// fails on whichever copy ends last.
	a, err := img.field(primary)
	if err != nil {
		return PairResult{}, err
	}
	b, err := img.field(secondary)
	if err != nil {
		return PairResult{}, err
	}
	return PairResult{
		Primary:   a,
		Secondary: b,
		Matches:   bytes.Equal(a, b),
	}, nil
}

// CheckPin compares the PIN (key learning code) at 0x1EE with its mirror at
// 0x1F7.
func CheckPin(img Image) (PairResult, error) {
	return checkPair(img, TagPinPrimary, TagPinSecondary)
}

// CheckPairing compares the ECU pairing (alarm learning) code at 0x1F1 with
// its mirror at 0x1FA.
func CheckPairing(img Image) (PairResult, error) {
	return checkPair(img, TagPairingPrimary, TagPairingSecondary)
}

// CheckConfigMirror reports whether both configuration blocks hold the same
// bytes. A mismatch is unusual but not invalid.
func CheckConfigMirror(img Image) (bool, error) {
	a, err := img.field(TagConfigBlockA)
	if err != nil {
		return false, err
	}
	b, err := img.field(TagConfigBlockB)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

// ObdState is the OBD programming access state inferred from the flag bytes.
type ObdState int

const (
	ObdUnknown ObdState = iota
	ObdUnlocked
	ObdLocked
)

func (s ObdState) String() string {
	switch s {
	case ObdUnlocked:
		return "unlocked"
	case ObdLocked:
		return "locked"
	default:
		return "unknown"
	}
}

var (
	obdUnlockedWindow = []byte{0xF6, 0x0A}
	obdLockedWindow1  = []byte{0x00, 0x00}
	obdLockedWindow2  = []byte{0x55, 0x55}
)

// ObdStatus is the classification together with the two windows it was
// derived from.
type ObdStatus struct {
	State   ObdState
	Window1 []byte
	Window2 []byte
}

func (s ObdStatus) Reason() string {
	w1, w2 := Lookup(TagObdFlagWindow1), Lookup(TagObdFlagWindow2)
	switch s.State {
	case ObdUnlocked:
		return fmt.Sprintf("F6 0A flags detected at 0x%03X and 0x%03X", w1.Offset, w2.Offset)
	case ObdLocked:
		return fmt.Sprintf("lock pattern at 0x%03X / 0x%03X (%s / %s)",
			w1.Offset, w2.Offset, HexString(s.Window1), HexString(s.Window2))
	default:
		return fmt.Sprintf("unrecognized flags: %s / %s",
			strings.ToLower(HexString(s.Window1)), strings.ToLower(HexString(s.Window2)))
	}
}

// CheckObdStatus classifies the OBD flag windows. The patterns are observed
// rather than documented, so ObdUnknown is a normal result.
func CheckObdStatus(img Image) (ObdStatus, error) {
	w1, err := img.field(TagObdFlagWindow1)
	if err != nil {
		return ObdStatus{}, err
	}
	w2, err := img.field(TagObdFlagWindow2)
	if err != nil {
		return ObdStatus{}, err
	}

	status := ObdStatus{State: ObdUnknown, Window1: w1, Window2: w2}
	switch {
	case bytes.Equal(w1, obdUnlockedWindow) && bytes.Equal(w2, obdUnlockedWindow):
		status.State = ObdUnlocked
	case bytes.Equal(w1, obdLockedWindow1) || bytes.Equal(w2, obdLockedWindow2):
		status.State = ObdLocked
	}
	return status, nil
}

// Issues is a set of whole-image advisory findings.
type Issues uint8

const (
	IssueWrongSize Issues = 1 << iota
	IssueAllZero
	IssueAllFF
)

func (i Issues) Has(issue Issues) bool {
	return i&issue != 0
}

func (i Issues) String() string {
	var names []string
	if i.Has(IssueWrongSize) {
		names = append(names, "wrong-size")
	}
	if i.Has(IssueAllZero) {
		names = append(names, "all-zero")
	}
	if i.Has(IssueAllFF) {
		names = append(names, "all-ff")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// CheckBulkPattern flags dumps that look like a bad read. An empty image is
// only reported as the wrong size.
func CheckBulkPattern(img Image) Issues {
	var issues Issues
	if img.Len() != Size {
		issues |= IssueWrongSize
	}
	if img.Len() == 0 {
		return issues
	}
	if allEqual(img.data, 0x00) {
		issues |= IssueAllZero
	}
	if allEqual(img.data, 0xFF) {
		issues |= IssueAllFF
	}
	return issues
}

func allEqual(b []byte, v byte) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}

// SyncPattern is the marker searched for in the counter/sync region.
var SyncPattern = []byte{0xB2, 0x22, 0xD4}

type SyncInfo struct {
	Data []byte

	// PatternOffset is the absolute image offset of SyncPattern, or -1.
	PatternOffset int
}

func (s SyncInfo) PatternFound() bool {
	return s.PatternOffset >= 0
}

func FindSyncPattern(img Image) (SyncInfo, error) {
	r := Lookup(TagSyncRegion)
	data, err := img.Field(r)
	if err != nil {
		return SyncInfo{}, err
	}
	info := SyncInfo{Data: data, PatternOffset: -1}
	if idx := bytes.Index(data, SyncPattern); idx >= 0 {
		info.PatternOffset = r.Offset + idx
	}
	return info, nil
}
