package nmea

// NavigationData holds one decoded minimum-navigation-data (RMC) sentence.
// Status is stored verbatim ("A" active / "V" void) without validation.
type NavigationData struct {
	Time       *string  `json:"time,omitempty"`   // UTC hhmmss.ss
	Status     *string  `json:"status,omitempty"` // "A" / "V"
	Latitude   float64  `json:"lat"`              // Decimal degrees
	Longitude  float64  `json:"lon"`              // Decimal degrees
	SpeedKnots *float64 `json:"speedKnots,omitempty"`
	CourseDeg  *float64 `json:"courseDeg,omitempty"` // Course over ground, degrees true
	Date       *string  `json:"date,omitempty"`      // ddmmyy
	MagVar     *float64 `json:"magVar,omitempty"`    // Magnetic variation, degrees
	MagVarDir  *string  `json:"magVarDir,omitempty"` // "E" / "W"
	Mode       *string  `json:"mode,omitempty"`      // FAA mode indicator (NMEA >= 2.3)
}

// DecodeNav decodes one minimum-navigation-data (RMC) sentence.
//
// Field layout after the identifier:
//
//	 1: time (hhmmss.ss, optional)
//	 2: status (A=active, V=void)
//	 3: latitude (ddmm.mmmm)
//	 4: N/S
//	 5: longitude (dddmm.mmmm)
//	 6: E/W
//	 7: speed over ground (knots, optional)
//	 8: course over ground (degrees, optional)
//	 9: date (ddmmyy, optional)
//	10: magnetic variation (degrees, optional)
//	11: variation direction (E/W, optional)
//	12: mode indicator (optional, may be absent entirely)
func DecodeNav(raw string) (*NavigationData, error) {
	if ident := LeadingIdentifier(raw); !contains(navIdentifiers, ident) {
		return nil, &UnsupportedIdentifierError{Identifier: ident}
	}
	payload, declared, err := splitSentence(raw)
	if err != nil {
		return nil, err
	}
	if err := validateChecksum(payload, declared); err != nil {
		return nil, err
	}
	fields := extractFields(payload)
	if err := validateFieldCount(fields, minNavFields); err != nil {
		return nil, err
	}

	latRaw, err := parseRequiredFloat(fields[3], "latitude")
	if err != nil {
		return nil, err
	}
	lonRaw, err := parseRequiredFloat(fields[5], "longitude")
	if err != nil {
		return nil, err
	}

	nav := &NavigationData{
		Time:       parseOptionalText(fields[1]),
		Status:     parseOptionalText(fields[2]),
		Latitude:   decimalDegrees(latRaw, fields[4]),
		Longitude:  decimalDegrees(lonRaw, fields[6]),
		SpeedKnots: parseOptionalFloat(fields[7]),
		CourseDeg:  parseOptionalFloat(fields[8]),
		Date:       parseOptionalText(fields[9]),
		MagVar:     parseOptionalFloat(fields[10]),
		MagVarDir:  parseOptionalText(fields[11]),
	}
	if len(fields) > minNavFields {
		nav.Mode = parseOptionalText(fields[12])
	}
	return nav, nil
}
