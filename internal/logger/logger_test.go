package logger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/tmsolberg/nmeahub/internal/nmea"
)

func TestRecordFixWritesRow(t *testing.T) {
	dir := t.TempDir()
	l := New(Config{Enabled: true, Path: dir, IntervalMs: 50})
	defer l.Close()

	fix, err := nmea.DecodeFix("$GNGGA,155642.90,6025.8038680,N,01055.0975279,E,2,12,0.59,64.591,M,39.937,M,,*74")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	l.RecordFix(fix)
	l.Close()

	files, err := filepath.Glob(filepath.Join(dir, "nmeahub_*.csv"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", files, err)
	}
	f, err := os.Open(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + one row, got %d rows", len(rows))
	}
	row := rows[1]
	if row[1] != "fix" || row[5] != "dgps" || row[6] != "12" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestIntervalThrottling(t *testing.T) {
	dir := t.TempDir()
	l := New(Config{Enabled: true, Path: dir, IntervalMs: 10_000})
	defer l.Close()

	nav, err := nmea.DecodeNav("$GNRMC,180201.80,A,6325.8068737,N,01025.0920747,E,0.074,,140225,,,A,V*1B")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := 0; i < 10; i++ {
		l.RecordNav(nav)
	}
	l.Close()

	files, _ := filepath.Glob(filepath.Join(dir, "nmeahub_*.csv"))
	if len(files) != 1 {
		t.Fatalf("expected one log file, got %v", files)
	}
	f, _ := os.Open(files[0])
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected exactly one throttled row, got %d", len(rows)-1)
	}
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	dir := t.TempDir()
	l := New(Config{Enabled: false, Path: dir})
	defer l.Close()

	nav, _ := nmea.DecodeNav("$GNRMC,180201.80,A,6325.8068737,N,01025.0920747,E,0.074,,140225,,,A,V*1B")
	l.RecordNav(nav)

	files, _ := filepath.Glob(filepath.Join(dir, "nmeahub_*.csv"))
	if len(files) != 0 {
		t.Fatalf("disabled logger created files: %v", files)
	}
}
