package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format represents an input document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatMarkup         // slide markup as streamed by the model
	FormatJSON           // an assembled deck serialized as JSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatMarkup:
		return "markup"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xml", ".deck", ".slides", ".txt":
		return FormatMarkup
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format from the first non-space byte.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 512)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read header: %w", err)
	}
	head := bytes.TrimLeft(buf[:n], " \t\r\n\ufeff")
	if len(head) == 0 {
		return FormatUnknown, fmt.Errorf("file is empty")
	}

	switch head[0] {
	case '{':
		return FormatJSON, nil
	case '<', '`':
		return FormatMarkup, nil
	}
	return FormatUnknown, nil
}
