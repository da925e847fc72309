// Package format provides file format detection for the geoform library.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// KMZ indicates a zipped KML archive (.kmz).
	KMZ
	// KML indicates a bare KML document (.kml).
	KML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case KMZ:
		return "KMZ"
	case KML:
		return "KML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case KMZ:
		return ".kmz"
	case KML:
		return ".kml"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".kmz":
		return KMZ
	case ".kml":
		return KML
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// ZIP magic: PK\x03\x04. KMZ is the only ZIP-based format here;
	// DetectFromReader additionally confirms a KML entry is present.
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return KMZ
	}

	if detectKMLMagic(data) {
		return KML
	}

	return Unknown
}

// detectKMLMagic checks if the data looks like a KML document.
func detectKMLMagic(data []byte) bool {
	// Skip a UTF-8 byte order mark; Google Earth writes one.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	// Trim leading whitespace
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}
	data = data[start:]

	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<KML") {
		return true
	}
	// XML declaration followed by a kml root element
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper[:min(500, len(upper))], "<KML") {
		return true
	}

	return false
}

// DetectFromReader inspects the content to determine format.
// This is more reliable than extension-based detection: a ZIP archive
// is only reported as KMZ when it actually carries a KML document.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	// Check for ZIP-based format
	if len(magic) >= 4 && magic[0] == 0x50 && magic[1] == 0x4B && magic[2] == 0x03 && magic[3] == 0x04 {
		return detectZIPFormat(r, size)
	}

	if detectKMLMagic(magic) {
		return KML, nil
	}

	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive for a KML document entry.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if strings.EqualFold(path.Ext(f.Name), ".kml") {
			return KMZ, nil
		}
	}

	return Unknown, nil
}
