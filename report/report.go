// Package report collects the results of every eeprom check into a single
// record that can be rendered as text, JSON or CBOR.
package report

import (
	"fmt"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/google/uuid"
)

type PartNumber struct {
	Hex          string `json:"hex" cbor:"hex"`
	Decoded      string `json:"decoded" cbor:"decoded"`
	DecodeFailed bool   `json:"decode_failed,omitempty" cbor:"decode_failed,omitempty"`
}

type Pair struct {
	Primary         string `json:"primary" cbor:"primary"`
	PrimaryOffset   int    `json:"primary_offset" cbor:"primary_offset"`
	Secondary       string `json:"secondary" cbor:"secondary"`
	SecondaryOffset int    `json:"secondary_offset" cbor:"secondary_offset"`
	Matches         bool   `json:"matches" cbor:"matches"`
}

type Obd struct {
	State   string `json:"state" cbor:"state"`
	Reason  string `json:"reason" cbor:"reason"`
	Window1 string `json:"window1" cbor:"window1"`
	Window2 string `json:"window2" cbor:"window2"`
}

type Slot struct {
	Slot   int    `json:"slot" cbor:"slot"`
	Offset int    `json:"offset" cbor:"offset"`
	Data   string `json:"data" cbor:"data"`
	State  string `json:"state" cbor:"state"`
	Empty  bool   `json:"empty" cbor:"empty"`
}

type Sync struct {
	Data          string `json:"data" cbor:"data"`
	PatternFound  bool   `json:"pattern_found" cbor:"pattern_found"`
	PatternOffset int    `json:"pattern_offset,omitempty" cbor:"pattern_offset,omitempty"`
}

type Report struct {
	ID   string `json:"id" cbor:"id"`
	Name string `json:"name" cbor:"name"`
	Size int    `json:"size" cbor:"size"`

	PartNumber   *PartNumber `json:"part_number,omitempty" cbor:"part_number,omitempty"`
	Obd          *Obd        `json:"obd,omitempty" cbor:"obd,omitempty"`
	Pin          *Pair       `json:"pin,omitempty" cbor:"pin,omitempty"`
	Pairing      *Pair       `json:"pairing,omitempty" cbor:"pairing,omitempty"`
	Slots        []Slot      `json:"slots" cbor:"slots"`
	Sync         *Sync       `json:"sync,omitempty" cbor:"sync,omitempty"`
	ConfigMirror *bool       `json:"config_mirror,omitempty" cbor:"config_mirror,omitempty"`

	Warnings []eeprom.Warning `json:"warnings" cbor:"warnings"`

	// Unavailable maps a field name to why it could not be read. A truncated
	// dump still reports every field that fits.
	Unavailable map[string]string `json:"unavailable,omitempty" cbor:"unavailable,omitempty"`

	img eeprom.Image
}

func (r *Report) unavailable(field string, err error) {
	if r.Unavailable == nil {
		r.Unavailable = map[string]string{}
	}
	r.Unavailable[field] = err.Error()
}

func pairReport(p eeprom.PairResult, primary, secondary eeprom.Tag) *Pair {
	return &Pair{
		Primary:         eeprom.HexString(p.Primary),
		PrimaryOffset:   eeprom.Lookup(primary).Offset,
		Secondary:       eeprom.HexString(p.Secondary),
		SecondaryOffset: eeprom.Lookup(secondary).Offset,
		Matches:         p.Matches,
	}
}

// Analyze runs every check against img.
func Analyze(name string, img eeprom.Image) *Report {
	r := &Report{
		ID:    uuid.NewString(),
		Name:  name,
		Size:  img.Len(),
		Slots: []Slot{},
		img:   img,
	}

	if pn, err := eeprom.DecodePartNumber(img); err != nil {
		r.unavailable("part_number", err)
	} else {
		r.PartNumber = &PartNumber{Hex: pn.Hex, Decoded: pn.Decoded, DecodeFailed: pn.DecodeFailed}
	}

	if obd, err := eeprom.CheckObdStatus(img); err != nil {
		r.unavailable("obd", err)
	} else {
		r.Obd = &Obd{
			State:   obd.State.String(),
			Reason:  obd.Reason(),
			Window1: eeprom.HexString(obd.Window1),
			Window2: eeprom.HexString(obd.Window2),
		}
	}

	if pin, err := eeprom.CheckPin(img); err != nil {
		r.unavailable("pin", err)
	} else {
		r.Pin = pairReport(pin, eeprom.TagPinPrimary, eeprom.TagPinSecondary)
	}

	if pairing, err := eeprom.CheckPairing(img); err != nil {
		r.unavailable("pairing", err)
	} else {
		r.Pairing = pairReport(pairing, eeprom.TagPairingPrimary, eeprom.TagPairingSecondary)
	}

	for slot := 1; slot <= eeprom.NumSlots; slot++ {
		rec, err := eeprom.ClassifySlot(img, slot)
		if err != nil {
			r.unavailable(fmt.Sprintf("slot%d", slot), err)
			continue
		}
		r.Slots = append(r.Slots, Slot{
			Slot:   rec.Slot,
			Offset: rec.Offset,
			Data:   eeprom.HexString(rec.Data),
			State:  rec.State.String(),
			Empty:  rec.State.Empty(),
		})
	}

	if sync, err := eeprom.FindSyncPattern(img); err != nil {
		r.unavailable("sync", err)
	} else {
		r.Sync = &Sync{Data: eeprom.HexString(sync.Data), PatternFound: sync.PatternFound()}
		if sync.PatternFound() {
			r.Sync.PatternOffset = sync.PatternOffset
		}
	}

	if same, err := eeprom.CheckConfigMirror(img); err != nil {
		r.unavailable("config_mirror", err)
	} else {
		r.ConfigMirror = &same
	}

	r.Warnings = eeprom.Verify(img)
	if r.Warnings == nil {
		r.Warnings = []eeprom.Warning{}
	}
	return r
}

// HexDump returns a hex dump of region, or "" if the image does not cover it.
func (r *Report) HexDump(region eeprom.Region) string {
	data, err := r.img.Field(region)
	if err != nil {
		return ""
	}
	return FormatHex(data, region.Offset)
}

// FullDump returns a hex dump of the whole image.
func (r *Report) FullDump() string {
	return FormatHex(r.img.Bytes(), 0)
}

// PinDetail is the span from the hex dump line holding the primary PIN to the
// end of the image, covering both PIN and pairing copies.
func (r *Report) PinDetail() eeprom.Region {
	start := eeprom.Lookup(eeprom.TagPinPrimary).Offset &^ 0xF
	return eeprom.Region{Name: "PinDetail", Offset: start, Length: eeprom.Size - start}
}
