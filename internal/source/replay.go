package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ReplaySource reads previously captured sentences line by line from a
// file or any reader (e.g. stdin with path "-").
type ReplaySource struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

// NewReplay creates a replay source for the given capture file.
func NewReplay(path string) *ReplaySource {
	return &ReplaySource{path: path}
}

// NewReplayReader creates a replay source over an existing reader.
func NewReplayReader(r io.Reader) *ReplaySource {
	return &ReplaySource{path: "<reader>", scanner: bufio.NewScanner(r)}
}

func (r *ReplaySource) Name() string { return "Replay " + r.path }

func (r *ReplaySource) Connect() error {
	if r.scanner != nil {
		return nil
	}
	if r.path == "-" {
		r.scanner = bufio.NewScanner(os.Stdin)
		return nil
	}
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("source: open %s: %w", r.path, err)
	}
	r.file = f
	r.scanner = bufio.NewScanner(f)
	return nil
}

func (r *ReplaySource) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

func (r *ReplaySource) ReadBatch() (string, error) {
	if r.scanner == nil {
		return "", fmt.Errorf("source: not connected")
	}
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
