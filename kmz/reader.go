// Package kmz reads KMZ archives: zip containers holding a KML placemark
// document plus any number of supporting assets (icons, photos, overlays).
package kmz

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Reader-related errors.
var (
	ErrInvalidArchive  = errors.New("kmz: invalid or corrupted archive")
	ErrMissingDocument = errors.New("kmz: no KML document in archive")
	ErrMissingContent  = errors.New("kmz: referenced entry not found")
	ErrReaderClosed    = errors.New("kmz: reader is closed")
)

// Reader provides access to the contents of a KMZ archive.
type Reader struct {
	zr       *zip.ReadCloser
	zrReader *zip.Reader // For when opened from io.ReaderAt
	docNames []string    // KML entry names in archive listing order
}

// Open opens a KMZ file from a path.
func Open(filePath string) (*Reader, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	r := &Reader{zr: zr}
	if err := r.init(&zr.Reader); err != nil {
		zr.Close()
		return nil, err
	}

	return r, nil
}

// OpenReader opens a KMZ archive from an io.ReaderAt.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	r := &Reader{zrReader: zr}
	if err := r.init(zr); err != nil {
		return nil, err
	}

	return r, nil
}

// init scans the archive for KML documents.
func (r *Reader) init(zr *zip.Reader) error {
	for _, f := range zr.File {
		if isKMLEntry(f.Name) {
			r.docNames = append(r.docNames, f.Name)
		}
	}

	if len(r.docNames) == 0 {
		return ErrMissingDocument
	}

	return nil
}

// isKMLEntry reports whether an entry name carries the KML extension.
// Matching is case-insensitive; some producers upper-case entry names.
func isKMLEntry(name string) bool {
	return strings.EqualFold(path.Ext(name), ".kml")
}

// Document returns the decompressed bytes of the archive's KML document.
// When the archive contains more than one KML entry, the first entry in
// archive listing order wins; DocumentNames exposes the full candidate
// list so callers can detect that case.
func (r *Reader) Document() ([]byte, error) {
	zr := r.getZipReader()
	if zr == nil {
		return nil, ErrReaderClosed
	}
	return r.readFile(zr, r.docNames[0])
}

// DocumentName returns the entry name of the KML document that
// Document reads.
func (r *Reader) DocumentName() string {
	return r.docNames[0]
}

// DocumentNames returns every KML entry name found in the archive, in
// archive listing order.
func (r *Reader) DocumentNames() []string {
	names := make([]string, len(r.docNames))
	copy(names, r.docNames)
	return names
}

// readFile reads a named entry from the ZIP archive.
func (r *Reader) readFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("kmz: opening entry %s: %w", name, err)
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingContent, name)
}

// Close closes the reader and releases resources.
// It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.zr != nil {
		err := r.zr.Close()
		r.zr = nil
		return err
	}
	return nil
}

// getZipReader returns the appropriate zip.Reader.
func (r *Reader) getZipReader() *zip.Reader {
	if r.zr != nil {
		return &r.zr.Reader
	}
	return r.zrReader
}
