package geoform

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/geoform/export"
	"github.com/tsawler/geoform/format"
	"github.com/tsawler/geoform/forms"
	"github.com/tsawler/geoform/kml"
	"github.com/tsawler/geoform/kmz"
)

// Extractor provides a fluent interface for extracting form records from
// KMZ and KML files. Each configuration method returns a new Extractor
// instance, making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	format   format.Format

	// Inputs (only one will be used based on format)
	kmzReader *kmz.Reader // KMZ archive reader
	kmlData   []byte      // bare KML document bytes

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings       []Warning
	archiveChecked bool // multi-document warning already recorded
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	newExt := &Extractor{
		filename:       e.filename,
		format:         e.format,
		kmzReader:      e.kmzReader,
		kmlData:        e.kmlData,
		ownsReader:     e.ownsReader,
		readerOpened:   e.readerOpened,
		options:        e.options.clone(),
		err:            e.err,
		warnings:       append([]Warning(nil), e.warnings...),
		archiveChecked: e.archiveChecked,
	}
	return newExt
}

// ensureReader opens the input if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	switch e.format {
	case format.KMZ:
		r, err := kmz.Open(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open KMZ: %w", err)
		}
		e.kmzReader = r
		e.ownsReader = true
		e.readerOpened = true
		return nil

	case format.KML:
		data, err := os.ReadFile(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open KML: %w", err)
		}
		e.kmlData = data
		e.readerOpened = true
		return nil

	default:
		return fmt.Errorf("unsupported file format: %s", e.format)
	}
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.kmzReader != nil {
		err := e.kmzReader.Close()
		e.kmzReader = nil
		e.ownsReader = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Form restricts extraction to records belonging to the named form group.
//
// Example:
//
//	records, _, err := geoform.Open("survey.kmz").Form("Tree Survey").Records()
func (e *Extractor) Form(label string) *Extractor {
	newExt := e.clone()
	newExt.options.form = label
	return newExt
}

// DropHeadless discards placemarks whose description carries no form
// heading instead of collecting them under the forms.NoForm group.
//
// Example:
//
//	groups, _, err := geoform.Open("survey.kmz").DropHeadless().Groups()
func (e *Extractor) DropHeadless() *Extractor {
	newExt := e.clone()
	newExt.options.dropHeadless = true
	return newExt
}

// StripMarkup configures export operations to strip residual HTML markup
// from cell values. Some survey tools double-encode markup inside
// description tables, which survives text extraction as literal tags.
//
// Example:
//
//	warnings, err := geoform.Open("survey.kmz").StripMarkup().ExportToFile("Tree Survey", "trees.csv")
func (e *Extractor) StripMarkup() *Extractor {
	newExt := e.clone()
	newExt.options.stripMarkup = true
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Placemarks parses the document and returns the raw placemarks in
// document order, before any record conversion or grouping.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	placemarks, warnings, err := geoform.Open("survey.kmz").Placemarks()
func (e *Extractor) Placemarks() ([]kml.Placemark, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	data, err := e.document()
	if err != nil {
		return nil, e.warnings, err
	}

	doc, err := kml.Parse(data)
	if err != nil {
		return nil, e.warnings, err
	}
	return doc.Placemarks(), e.warnings, nil
}

// Records extracts one flat record per placemark, in document order.
// Records carry the placemark name, the coordinate components, the form
// label recovered from the description heading, and the description's
// key-value fields. Form and DropHeadless options are applied here.
// This is a terminal operation that closes the underlying reader.
//
// Returns the records, any warnings encountered during processing, and an
// error if extraction failed. Warnings indicate non-fatal issues (e.g., a
// placemark without coordinates) where extraction succeeded but results
// may be incomplete.
//
// Example:
//
//	records, warnings, err := geoform.Open("survey.kmz").Records()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", geoform.FormatWarnings(warnings))
//	}
func (e *Extractor) Records() ([]forms.Record, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	records, err := e.records()
	if err != nil {
		return nil, e.warnings, err
	}
	return records, e.warnings, nil
}

// Groups extracts records and groups them by form label. Groups appear in
// order of first appearance in the document; records within a group keep
// document order. This is a terminal operation that closes the underlying
// reader.
//
// Example:
//
//	groups, warnings, err := geoform.Open("survey.kmz").Groups()
//	for _, g := range groups {
//	    fmt.Printf("%s: %d records\n", g.Label, len(g.Records))
//	}
func (e *Extractor) Groups() ([]forms.Group, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	records, err := e.records()
	if err != nil {
		return nil, e.warnings, err
	}
	return forms.GroupRecords(records), e.warnings, nil
}

// Labels returns the form labels present in the document, in order of
// first appearance. This is a terminal operation that closes the
// underlying reader.
//
// Example:
//
//	labels, _, err := geoform.Open("survey.kmz").Labels()
func (e *Extractor) Labels() ([]string, []Warning, error) {
	groups, warnings, err := e.Groups()
	if err != nil {
		return nil, warnings, err
	}
	return forms.Labels(groups), warnings, nil
}

// Schema returns the export column schema for the named form group: the
// four core columns followed by the extra field keys of the group's first
// record. This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	schema, _, err := geoform.Open("survey.kmz").Schema("Tree Survey")
func (e *Extractor) Schema(label string) ([]string, []Warning, error) {
	groups, warnings, err := e.Groups()
	if err != nil {
		return nil, warnings, err
	}

	g, ok := forms.Find(groups, label)
	if !ok {
		return nil, warnings, fmt.Errorf("no form group %q", label)
	}
	return g.Schema(), warnings, nil
}

// Document returns the raw KML document bytes from the input.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	data, warnings, err := geoform.Open("survey.kmz").Document()
func (e *Extractor) Document() ([]byte, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	data, err := e.document()
	if err != nil {
		return nil, e.warnings, err
	}
	return data, e.warnings, nil
}

// Export writes the named form group to w using the extractor's export
// configuration. This is a terminal operation that closes the underlying
// reader.
//
// Example:
//
//	warnings, err := geoform.Open("survey.kmz").Export("Tree Survey", os.Stdout)
func (e *Extractor) Export(label string, w io.Writer) ([]Warning, error) {
	return e.ExportWithConfig(label, w, e.exportConfig())
}

// ExportWithConfig writes the named form group to w using a custom export
// configuration. This is a terminal operation that closes the underlying
// reader.
//
// Example:
//
//	warnings, err := geoform.Open("survey.kmz").
//	    ExportWithConfig("Tree Survey", os.Stdout, export.TSVExportConfig())
func (e *Extractor) ExportWithConfig(label string, w io.Writer, config export.ExportConfig) ([]Warning, error) {
	groups, warnings, err := e.Groups()
	if err != nil {
		return warnings, err
	}

	g, ok := forms.Find(groups, label)
	if !ok {
		return warnings, fmt.Errorf("no form group %q", label)
	}

	if err := export.NewExporterWithConfig(config).Export(g, w); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// ExportToFile writes the named form group to a file. The output is
// materialized in memory before the file is created, so a failed export
// never leaves a half-written file behind. This is a terminal operation
// that closes the underlying reader.
//
// Example:
//
//	warnings, err := geoform.Open("survey.kmz").ExportToFile("Tree Survey", "trees.csv")
func (e *Extractor) ExportToFile(label, filename string) ([]Warning, error) {
	groups, warnings, err := e.Groups()
	if err != nil {
		return warnings, err
	}

	g, ok := forms.Find(groups, label)
	if !ok {
		return warnings, fmt.Errorf("no form group %q", label)
	}

	if err := export.NewExporterWithConfig(e.exportConfig()).ExportToFile(g, filename); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// ExportAll writes every form group into dir, one file per group named
// after its label, and returns the written paths in group order.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	paths, warnings, err := geoform.Open("survey.kmz").ExportAll("out")
func (e *Extractor) ExportAll(dir string) ([]string, []Warning, error) {
	return e.ExportAllWithConfig(dir, e.exportConfig())
}

// ExportAllWithConfig writes every form group into dir using a custom
// export configuration. This is a terminal operation that closes the
// underlying reader.
func (e *Extractor) ExportAllWithConfig(dir string, config export.ExportConfig) ([]string, []Warning, error) {
	groups, warnings, err := e.Groups()
	if err != nil {
		return nil, warnings, err
	}

	paths, err := export.NewExporterWithConfig(config).ExportAll(groups, dir)
	if err != nil {
		return paths, warnings, err
	}
	return paths, warnings, nil
}

// ============================================================================
// Informational Operations (do not close the reader)
// ============================================================================

// PlacemarkCount returns the number of placemarks in the document.
// Note: This does NOT close the reader, allowing further operations.
//
// Example:
//
//	ext := geoform.Open("survey.kmz")
//	defer ext.Close()
//	count, err := ext.PlacemarkCount()
func (e *Extractor) PlacemarkCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	if err := e.ensureReader(); err != nil {
		return 0, err
	}

	data, err := e.document()
	if err != nil {
		return 0, err
	}

	doc, err := kml.Parse(data)
	if err != nil {
		return 0, err
	}
	return len(doc.Placemarks()), nil
}

// DocumentName returns the archive path of the KML document for KMZ
// inputs, or the empty string for bare KML inputs.
// Note: This does NOT close the reader, allowing further operations.
func (e *Extractor) DocumentName() (string, error) {
	if e.err != nil {
		return "", e.err
	}

	if err := e.ensureReader(); err != nil {
		return "", err
	}

	if e.kmzReader == nil {
		return "", nil
	}
	return e.kmzReader.DocumentName(), nil
}

// Assets returns the non-KML archive entries for KMZ inputs, such as
// embedded photos. Bare KML inputs have no assets.
// Note: This does NOT close the reader, allowing further operations.
//
// Example:
//
//	ext := geoform.Open("survey.kmz")
//	defer ext.Close()
//	assets, err := ext.Assets()
func (e *Extractor) Assets() ([]kmz.Asset, error) {
	if e.err != nil {
		return nil, e.err
	}

	if err := e.ensureReader(); err != nil {
		return nil, err
	}

	if e.kmzReader == nil {
		return nil, nil
	}
	return e.kmzReader.Assets(), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// document returns the KML document bytes from whichever input is open.
func (e *Extractor) document() ([]byte, error) {
	if e.kmlData != nil {
		return e.kmlData, nil
	}
	if e.kmzReader == nil {
		return nil, fmt.Errorf("no input open")
	}

	data, err := e.kmzReader.Document()
	if err != nil {
		return nil, err
	}

	if !e.archiveChecked {
		e.archiveChecked = true
		if names := e.kmzReader.DocumentNames(); len(names) > 1 {
			e.addWarning("archive", "%d KML documents found, using %q", len(names), names[0])
		}
	}
	return data, nil
}

// records parses the document and converts placemarks to records,
// applying the form filter and headless handling from the options.
func (e *Extractor) records() ([]forms.Record, error) {
	data, err := e.document()
	if err != nil {
		return nil, err
	}

	doc, err := kml.Parse(data)
	if err != nil {
		return nil, err
	}

	placemarks := doc.Placemarks()
	records := make([]forms.Record, 0, len(placemarks))
	for _, p := range placemarks {
		e.checkPlacemark(p)

		r := forms.NewRecord(p)
		if e.options.dropHeadless && !r.Labeled {
			continue
		}
		if e.options.form != "" && r.Form != e.options.form {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// exportConfig derives the default export configuration from the
// extractor's options.
func (e *Extractor) exportConfig() export.ExportConfig {
	config := export.DefaultExportConfig()
	config.StripMarkup = e.options.stripMarkup
	return config
}

// checkPlacemark records warnings for placemark data that extraction
// tolerates but downstream consumers may care about.
func (e *Extractor) checkPlacemark(p kml.Placemark) {
	coords := strings.TrimSpace(p.Coordinates)
	if coords == "" {
		e.addWarning("placemark", "%q has no coordinates", p.Name)
		return
	}
	if len(strings.Split(coords, ",")) > 3 {
		e.addWarning("placemark", "%q has more than three coordinate components, extras ignored", p.Name)
	}
}
