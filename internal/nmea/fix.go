package nmea

// FixQuality is the GGA fix-quality indicator.
type FixQuality uint8

const (
	QualityInvalid    FixQuality = 0
	QualityAutonomous FixQuality = 1
	QualityDGPS       FixQuality = 2
	QualityPPS        FixQuality = 3
	QualityRTK        FixQuality = 4
	QualityRTKFloat   FixQuality = 5
	QualityEstimated  FixQuality = 6
	QualityManual     FixQuality = 7
	QualitySimulation FixQuality = 8
	// QualityWAAS is non-standard but emitted by some receivers.
	QualityWAAS FixQuality = 9
)

// fixQualityOf maps a numeric quality code to its variant. Codes with no
// mapping are not an error; they decode as QualityInvalid.
func fixQualityOf(code uint8) FixQuality {
	if code > 9 {
		return QualityInvalid
	}
	return FixQuality(code)
}

func (q FixQuality) String() string {
	switch q {
	case QualityAutonomous:
		return "autonomous"
	case QualityDGPS:
		return "dgps"
	case QualityPPS:
		return "pps"
	case QualityRTK:
		return "rtk"
	case QualityRTKFloat:
		return "rtk-float"
	case QualityEstimated:
		return "estimated"
	case QualityManual:
		return "manual"
	case QualitySimulation:
		return "simulation"
	case QualityWAAS:
		return "waas"
	default:
		return "invalid"
	}
}

// FixData holds one decoded fix-data (GGA) sentence.
type FixData struct {
	Time       *string    `json:"time,omitempty"` // UTC hhmmss.ss
	Latitude   float64    `json:"lat"`            // Decimal degrees
	Longitude  float64    `json:"lon"`            // Decimal degrees
	Quality    FixQuality `json:"quality"`
	Satellites uint8      `json:"satellites"` // Sats in use
	HDOP       float64    `json:"hdop"`       // Horizontal dilution
	Altitude   float64    `json:"altitude"`   // Meters above MSL
}

// Minimum field counts: identifier plus the data fields each kind requires.
const (
	minFixFields = 10
	minNavFields = 12
)

// DecodeFix decodes one fix-data (GGA) sentence.
//
// Field layout after the identifier:
//
//	1: time (hhmmss.ss, optional)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: fix quality (0-9)
//	7: satellites in use
//	8: HDOP
//	9: altitude (meters)
func DecodeFix(raw string) (*FixData, error) {
	if ident := LeadingIdentifier(raw); !contains(fixIdentifiers, ident) {
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
	if err := validateFieldCount(fields, minFixFields); err != nil {
		return nil, err
	}

	latRaw, err := parseRequiredFloat(fields[2], "latitude")
	if err != nil {
		return nil, err
	}
	lonRaw, err := parseRequiredFloat(fields[4], "longitude")
	if err != nil {
		return nil, err
	}
	quality, err := parseRequiredUint8(fields[6], "quality")
	if err != nil {
		return nil, err
	}
	sats, err := parseRequiredUint8(fields[7], "satellites")
	if err != nil {
		return nil, err
	}
	hdop, err := parseRequiredFloat(fields[8], "hdop")
	if err != nil {
		return nil, err
	}
	alt, err := parseRequiredFloat(fields[9], "altitude")
	if err != nil {
		return nil, err
	}

	return &FixData{
		Time:       parseOptionalText(fields[1]),
		Latitude:   decimalDegrees(latRaw, fields[3]),
		Longitude:  decimalDegrees(lonRaw, fields[5]),
		Quality:    fixQualityOf(quality),
		Satellites: sats,
		HDOP:       hdop,
		Altitude:   alt,
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
