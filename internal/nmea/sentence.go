package nmea

import (
	"fmt"
	"strings"
)

// Identifier lists for the two supported sentence kinds. The identifier is
// the talker+type token between '$' and the first comma, e.g. "GNGGA".
var (
	fixIdentifiers = []string{"GPGGA", "GNGGA", "GLGGA", "GAGGA"}
	navIdentifiers = []string{"GPRMC", "GNRMC", "GLRMC", "GARMC"}
)

// FixIdentifiers returns the identifiers recognized by the fix-data (GGA)
// decoder.
func FixIdentifiers() []string {
	return append([]string(nil), fixIdentifiers...)
}

// NavIdentifiers returns the identifiers recognized by the
// minimum-navigation-data (RMC) decoder.
func NavIdentifiers() []string {
	return append([]string(nil), navIdentifiers...)
}

// LeadingIdentifier extracts the talker+type token from a raw sentence:
// everything between the leading '$' and the first comma. Returns "" if the
// sentence does not start with '$'.
func LeadingIdentifier(raw string) string {
	if !strings.HasPrefix(raw, "$") {
		return ""
	}
	rest := raw[1:]
	if i := strings.IndexByte(rest, ','); i >= 0 {
		return rest[:i]
	}
	// A sentence with no fields at all; the whole payload is the identifier.
	if i := strings.IndexByte(rest, '*'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// Sentence wraps a payload (without '$' or checksum) into a full framed
// sentence: "$<payload>*<checksum>".
func Sentence(payload string) string {
	return fmt.Sprintf("$%s*%02X", payload, checksum("$"+payload))
}

// splitSentence separates a raw sentence into its payload (including the
// leading '$') and the declared checksum text. The sentence must contain
// exactly one '*'; trailing whitespace and line terminators after the
// checksum are trimmed.
func splitSentence(raw string) (payload, declared string, err error) {
	if !strings.HasPrefix(raw, "$") {
		return "", "", &InvalidFormatError{Reason: "missing '$'"}
	}
	switch n := strings.Count(raw, "*"); {
	case n == 0:
		return "", "", &InvalidFormatError{Reason: "missing '*' checksum separator"}
	case n > 1:
		return "", "", &InvalidFormatError{Reason: "multiple '*' checksum separators"}
	}
	star := strings.IndexByte(raw, '*')
	return raw[:star], strings.TrimSpace(raw[star+1:]), nil
}

// checksum XOR-reduces every payload byte after the leading '$'. The '$'
// itself is never included, nor is the '*'.
func checksum(payload string) byte {
	var sum byte
	for i := 1; i < len(payload); i++ {
		sum ^= payload[i]
	}
	return sum
}

// validateChecksum compares the computed checksum, formatted as two-digit
// uppercase hex, against the declared text. The compare is case-sensitive.
func validateChecksum(payload, declared string) error {
	computed := fmt.Sprintf("%02X", checksum(payload))
	if computed != declared {
		return &ChecksumMismatchError{Declared: declared, Computed: computed}
	}
	return nil
}

// extractFields drops the leading '$' and splits the payload on commas.
// Empty trailing fields are preserved: an absent value is meaningful and
// becomes nil downstream.
func extractFields(payload string) []string {
	return strings.Split(strings.TrimPrefix(payload, "$"), ",")
}

// validateFieldCount fails when fewer fields are present than the sentence
// kind's minimum. Extra fields are tolerated.
func validateFieldCount(fields []string, min int) error {
	if len(fields) < min {
		return &InsufficientFieldsError{Expected: min, Actual: len(fields)}
	}
	return nil
}
