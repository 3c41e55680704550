package router

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DispatchBytes decodes a raw byte buffer with the declared text encoding
// and dispatches the resulting text. A buffer that fails to decode is
// dropped whole; no partial dispatch happens.
func (r *Router) DispatchBytes(data []byte, encoding string) {
	text, err := decodeText(data, encoding)
	if err != nil {
		if r.verbose {
			log.Printf("[router] drop %d-byte buffer: %v", len(data), err)
		}
		return
	}
	r.Dispatch(text)
}

func decodeText(data []byte, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("router: invalid UTF-8 input")
		}
		return string(data), nil
	case "iso-8859-1", "latin-1", "latin1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("router: decode ISO-8859-1: %w", err)
		}
		return string(out), nil
	case "windows-1252", "cp1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("router: decode Windows-1252: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("router: unknown encoding %q", encoding)
	}
}
