package eeprom

import "fmt"

// WarningKind classifies an advisory finding.
type WarningKind string

const (
	WarnWrongSize       WarningKind = "wrong-size"
	WarnAllZero         WarningKind = "all-zero"
	WarnAllFF           WarningKind = "all-ff"
	WarnPinMismatch     WarningKind = "pin-mismatch"
	WarnPairingMismatch WarningKind = "pairing-mismatch"
	WarnConfigMismatch  WarningKind = "config-mismatch"
	WarnObdUnknown      WarningKind = "obd-unknown"
)

// Warning is an advisory finding. Warnings never block an operation in this
// package; callers decide whether to require an override.
type Warning struct {
	Kind    WarningKind `json:"kind" cbor:"kind"`
	Message string      `json:"message" cbor:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// Verify collects every advisory finding for img. Fields that the image is
// too short to hold are skipped.
func Verify(img Image) []Warning {
	var warnings []Warning
	add := func(kind WarningKind, format string, args ...any) {
		warnings = append(warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	issues := CheckBulkPattern(img)
	if issues.Has(IssueWrongSize) {
		add(WarnWrongSize, "size is %d bytes, expected %d", img.Len(), Size)
	}
	if issues.Has(IssueAllZero) {
		add(WarnAllZero, "data is all zeros - likely a bad read")
	}
	if issues.Has(IssueAllFF) {
		add(WarnAllFF, "data is all 0xFF - likely erased or bad read")
	}

	pinA, pinB := Lookup(TagPinPrimary), Lookup(TagPinSecondary)
	if pin, err := CheckPin(img); err == nil && !pin.Matches {
		add(WarnPinMismatch, "PIN codes at 0x%03X and 0x%03X don't match - possible corruption",
			pinA.Offset, pinB.Offset)
	}

	pairA, pairB := Lookup(TagPairingPrimary), Lookup(TagPairingSecondary)
	if pairing, err := CheckPairing(img); err == nil && !pairing.Matches {
		add(WarnPairingMismatch, "pairing codes at 0x%03X and 0x%03X don't match",
			pairA.Offset, pairB.Offset)
	}

	cfgA, cfgB := Lookup(TagConfigBlockA), Lookup(TagConfigBlockB)
	if same, err := CheckConfigMirror(img); err == nil && !same {
		add(WarnConfigMismatch, "config blocks at 0x%03X and 0x%03X differ (unusual)",
			cfgA.Offset, cfgB.Offset)
	}

	if obd, err := CheckObdStatus(img); err == nil && obd.State == ObdUnknown {
		add(WarnObdUnknown, "OBD status could not be determined: %s", obd.Reason())
	}

	return warnings
}

// HasBlocking reports whether any warning should stop a patch without an
// explicit override. Only the checks the patch tools have always gated on
// count; the rest are informational.
func HasBlocking(warnings []Warning) bool {
	for _, w := range warnings {
		switch w.Kind {
		case WarnWrongSize, WarnAllZero, WarnAllFF, WarnPinMismatch:
			return true
		}
	}
	return false
}
