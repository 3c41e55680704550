package nmea

import (
	"math"
	"strconv"
)

// parseRequiredFloat converts a mandatory numeric field. An empty or
// non-numeric value is an error carrying the field's semantic name.
func parseRequiredFloat(field, name string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, &InvalidFieldError{Field: name}
	}
	return v, nil
}

// parseRequiredUint8 converts a mandatory small unsigned integer field.
// Values outside 0-255 fail the same way as non-numeric text.
func parseRequiredUint8(field, name string) (uint8, error) {
	v, err := strconv.ParseUint(field, 10, 8)
	if err != nil {
		return 0, &InvalidFieldError{Field: name}
	}
	return uint8(v), nil
}

// parseOptionalFloat converts an optional numeric field. Empty text is nil;
// so is non-numeric text. Optional fields are deliberately lenient, in
// contrast with the required parsers above.
func parseOptionalFloat(field string) *float64 {
	if field == "" {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseOptionalText returns nil for an empty field, otherwise the text
// verbatim.
func parseOptionalText(field string) *string {
	if field == "" {
		return nil
	}
	return &field
}

// decimalDegrees converts a packed ddmm.mmmm (or dddmm.mmmm) coordinate to
// signed decimal degrees. The result is negated for "S" and "W"; any other
// direction value is treated as non-negating. No range validation is applied.
func decimalDegrees(raw float64, direction string) float64 {
	deg := math.Floor(raw / 100)
	min := raw - deg*100
	dec := deg + min/60
	if direction == "S" || direction == "W" {
		dec = -dec
	}
	return dec
}
