package nmea

import "fmt"

// InvalidFormatError reports a structural violation: missing '$' or the
// wrong number of '*' checksum separators.
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("nmea: invalid format: %s", e.Reason)
}

// UnsupportedIdentifierError reports a leading token that is not one of the
// identifiers known to the attempted sentence kind.
type UnsupportedIdentifierError struct {
	Identifier string
}

func (e *UnsupportedIdentifierError) Error() string {
	return fmt.Sprintf("nmea: unsupported identifier %q", e.Identifier)
}

// InsufficientFieldsError reports a sentence with fewer fields than the
// sentence kind requires.
type InsufficientFieldsError struct {
	Expected int
	Actual   int
}

func (e *InsufficientFieldsError) Error() string {
	return fmt.Sprintf("nmea: insufficient fields: expected at least %d, got %d", e.Expected, e.Actual)
}

// ChecksumMismatchError reports a declared checksum that differs from the
// one computed over the payload. Both values are two-digit uppercase hex.
type ChecksumMismatchError struct {
	Declared string
	Computed string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("nmea: checksum mismatch: declared %s, computed %s", e.Declared, e.Computed)
}

// InvalidFieldError reports a required field that failed type conversion or
// range check. Field is the semantic field name, e.g. "hdop".
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("nmea: invalid field %q", e.Field)
}
