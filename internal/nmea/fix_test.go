package nmea

import (
	"errors"
	"math"
	"testing"
)

func TestDecodeFix(t *testing.T) {
	raw := "$GNGGA,155642.90,6025.8038680,N,01055.0975279,E,2,12,0.59,64.591,M,39.937,M,,*74"
	fix, err := DecodeFix(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fix.Time == nil || *fix.Time != "155642.90" {
		t.Fatalf("unexpected time: %v", fix.Time)
	}
	if math.Abs(fix.Latitude-60.4300645) > 1e-6 {
		t.Fatalf("unexpected latitude %v", fix.Latitude)
	}
	if math.Abs(fix.Longitude-10.9182921) > 1e-6 {
		t.Fatalf("unexpected longitude %v", fix.Longitude)
	}
	if fix.Quality != QualityDGPS {
		t.Fatalf("expected dgps, got %v", fix.Quality)
	}
	if fix.Satellites != 12 {
		t.Fatalf("expected 12 satellites, got %d", fix.Satellites)
	}
	if fix.HDOP != 0.59 {
		t.Fatalf("unexpected hdop %v", fix.HDOP)
	}
	if fix.Altitude != 64.591 {
		t.Fatalf("unexpected altitude %v", fix.Altitude)
	}
}

func TestDecodeFixStaleChecksum(t *testing.T) {
	// Same sentence with the quality field changed from 2 to 3; the declared
	// checksum is now stale.
	raw := "$GNGGA,155642.90,6025.8038680,N,01055.0975279,E,3,12,0.59,64.591,M,39.937,M,,*74"
	_, err := DecodeFix(raw)
	var cme *ChecksumMismatchError
	if !errors.As(err, &cme) {
		t.Fatalf("expected ChecksumMismatchError, got %v", err)
	}
	if cme.Declared != "74" {
		t.Fatalf("expected declared 74, got %q", cme.Declared)
	}
	if cme.Computed == "74" {
		t.Fatalf("computed checksum should differ from declared")
	}
}

func TestDecodeFixEmptyRequiredField(t *testing.T) {
	// HDOP left empty; required fields do not get the optional-field leniency.
	raw := Sentence("GNGGA,123519,4807.038,N,01131.000,E,1,08,,545.4,M,46.9,M,,")
	_, err := DecodeFix(raw)
	var fe *InvalidFieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected InvalidFieldError, got %v", err)
	}
	if fe.Field != "hdop" {
		t.Fatalf("expected field hdop, got %q", fe.Field)
	}
}

func TestDecodeFixUnknownQualityMapsToInvalid(t *testing.T) {
	raw := Sentence("GPGGA,123519,4807.038,N,01131.000,E,15,08,0.9,545.4,M,46.9,M,,")
	fix, err := DecodeFix(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fix.Quality != QualityInvalid {
		t.Fatalf("expected invalid, got %v", fix.Quality)
	}
}

func TestDecodeFixUnsupportedIdentifier(t *testing.T) {
	raw := Sentence("GPVTG,054.7,T,034.4,M,005.5,N,010.2,K")
	_, err := DecodeFix(raw)
	var ue *UnsupportedIdentifierError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnsupportedIdentifierError, got %v", err)
	}
	if ue.Identifier != "GPVTG" {
		t.Fatalf("unexpected identifier %q", ue.Identifier)
	}
}

func TestDecodeFixInsufficientFields(t *testing.T) {
	raw := Sentence("GPGGA,123519,4807.038,N")
	_, err := DecodeFix(raw)
	var ife *InsufficientFieldsError
	if !errors.As(err, &ife) {
		t.Fatalf("expected InsufficientFieldsError, got %v", err)
	}
	if ife.Expected != 10 || ife.Actual != 4 {
		t.Fatalf("unexpected counts: %+v", ife)
	}
}

func TestDecodeFixAllTalkers(t *testing.T) {
	for _, ident := range FixIdentifiers() {
		raw := Sentence(ident + ",123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,")
		if _, err := DecodeFix(raw); err != nil {
			t.Fatalf("%s: %v", ident, err)
		}
	}
}

func TestFixQualityStrings(t *testing.T) {
	cases := map[FixQuality]string{
		QualityInvalid:    "invalid",
		QualityAutonomous: "autonomous",
		QualityDGPS:       "dgps",
		QualityPPS:        "pps",
		QualityRTK:        "rtk",
		QualityRTKFloat:   "rtk-float",
		QualityEstimated:  "estimated",
		QualityManual:     "manual",
		QualitySimulation: "simulation",
		QualityWAAS:       "waas",
	}
	for q, want := range cases {
		if q.String() != want {
			t.Fatalf("%d: expected %q, got %q", q, want, q.String())
		}
	}
}
