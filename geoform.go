// Package geoform provides a fluent API for extracting field-survey form
// submissions from KMZ and KML files.
//
// Survey apps that publish to Google Earth encode each submission as a
// placemark whose description balloon holds the form name in a heading and
// the submitted answers in a two-column table. geoform reads those files,
// recovers one flat record per placemark, groups the records by form, and
// exports each group as CSV or TSV.
//
// Basic usage:
//
//	groups, warnings, err := geoform.Open("survey.kmz").Groups()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", geoform.FormatWarnings(warnings))
//	}
//
// With options:
//
//	records, _, err := geoform.Open("survey.kmz").
//	    Form("Tree Survey").
//	    StripMarkup().
//	    Records()
//
// For advanced use cases, the lower-level kmz, kml, and desc packages are
// also available.
package geoform

import (
	"github.com/tsawler/geoform/format"
	"github.com/tsawler/geoform/kmz"
)

// Open opens a KMZ or KML file and returns an Extractor for fluent
// configuration. The format is detected from the filename extension.
// The returned Extractor must be closed when done, either explicitly via
// Close() or implicitly when calling a terminal operation like Records().
//
// Example:
//
//	records, warnings, err := geoform.Open("survey.kmz").Records()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		format:   format.Detect(filename),
		options:  defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened kmz.Reader.
// This is useful when you need more control over the reader lifecycle.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := kmz.Open("survey.kmz")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	records, warnings, err := geoform.FromReader(r).Records()
func FromReader(r *kmz.Reader) *Extractor {
	return &Extractor{
		format:       format.KMZ,
		kmzReader:    r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// FromKML creates an Extractor from raw KML document bytes. No file or
// archive is involved, so Close is a no-op.
//
// Example:
//
//	records, warnings, err := geoform.FromKML(data).Records()
func FromKML(data []byte) *Extractor {
	return &Extractor{
		format:       format.KML,
		kmlData:      data,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := geoform.Must(geoform.Open("survey.kmz").PlacemarkCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustExtract is a helper that wraps a call to Records() or Groups() and
// panics if the error is non-nil. It discards warnings and returns just
// the value. It is intended for use in scripts or tests where error
// handling would be cumbersome.
//
// Example:
//
//	groups := geoform.MustExtract(geoform.Open("survey.kmz").Groups())
func MustExtract[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
