package source

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"go.bug.st/serial"
)

// SerialSource reads NMEA 0183 sentences from a UART receiver. Compatible
// with u-blox NEO-M8N and any standard NMEA GPS.
type SerialSource struct {
	portPath string
	baudRate int
	port     serial.Port
	scanner  *bufio.Scanner
	mu       sync.Mutex
}

// SerialConfig holds configuration for the serial source.
type SerialConfig struct {
	PortPath string `yaml:"port_path" json:"portPath"`
	BaudRate int    `yaml:"baud_rate" json:"baudRate"`
}

// NewSerial creates a serial source.
func NewSerial(cfg SerialConfig) *SerialSource {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 9600 // Standard NMEA default
	}
	return &SerialSource{
		portPath: cfg.PortPath,
		baudRate: cfg.BaudRate,
	}
}

func (s *SerialSource) Name() string { return "Serial NMEA" }

func (s *SerialSource) Connect() error {
	mode := &serial.Mode{
		BaudRate: s.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(s.portPath, mode)
	if err != nil {
		return fmt.Errorf("source: failed to open %s: %w", s.portPath, err)
	}
	port.SetReadTimeout(200 * time.Millisecond)
	s.mu.Lock()
	s.port = port
	s.scanner = bufio.NewScanner(port)
	s.mu.Unlock()
	log.Printf("[source] connected to %s at %d baud", s.portPath, s.baudRate)
	return nil
}

func (s *SerialSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}

// ReadBatch returns the next line from the port. Lines that cannot hold a
// sentence are skipped here; everything else is the router's concern.
func (s *SerialSource) ReadBatch() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanner == nil {
		return "", fmt.Errorf("source: not connected")
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
