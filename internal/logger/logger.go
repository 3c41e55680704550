package logger

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tmsolberg/nmeahub/internal/nmea"
)

// Logger records decoded fix and navigation records to CSV files with
// automatic rotation.
type Logger struct {
	mu       sync.Mutex
	dir      string
	interval time.Duration
	enabled  bool

	file   *os.File
	writer *csv.Writer
	lastTs time.Time
	rows   int
}

// Config holds logger configuration.
type Config struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Path       string `yaml:"path" json:"path"`
	IntervalMs int    `yaml:"interval_ms" json:"intervalMs"`
}

const maxRowsPerFile = 100_000 // Rotate after 100k rows

var csvHeader = []string{
	"timestamp", "kind", "fix_time", "lat", "lon",
	"quality", "satellites", "hdop", "altitude_m",
	"speed_kn", "course_deg", "date", "mode",
}

// New creates a new Logger.
func New(cfg Config) *Logger {
	if cfg.Path == "" {
		cfg.Path = "/var/log/nmeahub"
	}
	interval := time.Duration(cfg.IntervalMs) * time.Millisecond
	if interval < 50*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return &Logger{
		dir:      cfg.Path,
		interval: interval,
		enabled:  cfg.Enabled,
	}
}

// SetEnabled allows toggling logging at runtime.
func (l *Logger) SetEnabled(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = on
	if !on && l.file != nil {
		l.closeFile()
	}
}

// RecordFix writes one decoded fix-data record.
func (l *Logger) RecordFix(fix *nmea.FixData) {
	row := make([]string, len(csvHeader))
	row[1] = "fix"
	row[2] = optText(fix.Time)
	row[3] = fmt.Sprintf("%.7f", fix.Latitude)
	row[4] = fmt.Sprintf("%.7f", fix.Longitude)
	row[5] = fix.Quality.String()
	row[6] = fmt.Sprintf("%d", fix.Satellites)
	row[7] = fmt.Sprintf("%.2f", fix.HDOP)
	row[8] = fmt.Sprintf("%.1f", fix.Altitude)
	l.record(row)
}

// RecordNav writes one decoded navigation-data record.
func (l *Logger) RecordNav(nav *nmea.NavigationData) {
	row := make([]string, len(csvHeader))
	row[1] = "nav"
	row[2] = optText(nav.Time)
	row[3] = fmt.Sprintf("%.7f", nav.Latitude)
	row[4] = fmt.Sprintf("%.7f", nav.Longitude)
	row[9] = optFloat(nav.SpeedKnots)
	row[10] = optFloat(nav.CourseDeg)
	row[11] = optText(nav.Date)
	row[12] = optText(nav.Mode)
	l.record(row)
}

// Close flushes and closes the current log file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeFile()
}

func (l *Logger) record(row []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	now := time.Now()
	if now.Sub(l.lastTs) < l.interval {
		return
	}
	l.lastTs = now
	row[0] = now.Format(time.RFC3339Nano)

	if l.writer == nil || l.rows >= maxRowsPerFile {
		if err := l.rotateFile(now); err != nil {
			log.Printf("[logger] rotate failed: %v", err)
			return
		}
	}

	if err := l.writer.Write(row); err != nil {
		log.Printf("[logger] write failed: %v", err)
		return
	}
	l.writer.Flush()
	l.rows++
}

func (l *Logger) rotateFile(now time.Time) error {
	l.closeFile()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", l.dir, err)
	}

	filename := fmt.Sprintf("nmeahub_%s.csv", now.Format("2006-01-02_150405"))
	path := filepath.Join(l.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	l.file = f
	l.writer = csv.NewWriter(f)
	l.rows = 0

	if err := l.writer.Write(csvHeader); err != nil {
		return err
	}
	l.writer.Flush()

	log.Printf("[logger] opened %s", path)
	return nil
}

func (l *Logger) closeFile() {
	if l.writer != nil {
		l.writer.Flush()
		l.writer = nil
	}
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func optText(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.3f", *v)
}
