// Package export serializes form groups as delimited tabular text.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tsawler/geoform/forms"
)

// ExportFormat defines the available export formats
type ExportFormat int

const (
	// ExportFormatCSV exports as comma-separated values
	ExportFormatCSV ExportFormat = iota
	// ExportFormatTSV exports as tab-separated values
	ExportFormatTSV
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatCSV:
		return "csv"
	case ExportFormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatCSV:
		return ".csv"
	case ExportFormatTSV:
		return ".tsv"
	default:
		return ".txt"
	}
}

// ParseFormat maps a format name to an ExportFormat.
func ParseFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return ExportFormatCSV, nil
	case "tsv":
		return ExportFormatTSV, nil
	default:
		return ExportFormatCSV, fmt.Errorf("unknown export format %q", name)
	}
}

// ExportConfig holds configuration options for export
type ExportConfig struct {
	// Format specifies the export format
	Format ExportFormat

	// CSVDelimiter specifies the field delimiter (default: comma)
	CSVDelimiter rune

	// IncludeHeader includes the schema header row
	IncludeHeader bool

	// StripMarkup cleans residual HTML markup out of cell values.
	// Survey tools frequently double-encode markup inside description
	// tables, which survives text extraction as literal tags.
	StripMarkup bool
}

// DefaultExportConfig returns sensible defaults for export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:        ExportFormatCSV,
		CSVDelimiter:  ',',
		IncludeHeader: true,
		StripMarkup:   false,
	}
}

// TSVExportConfig returns config optimized for TSV export
func TSVExportConfig() ExportConfig {
	config := DefaultExportConfig()
	config.Format = ExportFormatTSV
	config.CSVDelimiter = '\t'
	return config
}

// Exporter handles exporting form groups to delimited text
type Exporter struct {
	config    ExportConfig
	sanitizer *bluemonday.Policy
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return NewExporterWithConfig(DefaultExportConfig())
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config ExportConfig) *Exporter {
	e := &Exporter{config: config}
	if config.StripMarkup {
		e.sanitizer = bluemonday.StrictPolicy()
	}
	return e
}

// Export writes the group's records to w under the group's schema.
func (e *Exporter) Export(g forms.Group, w io.Writer) error {
	switch e.config.Format {
	case ExportFormatCSV, ExportFormatTSV:
		return e.exportCSV(g, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToString exports the group to a string
func (e *Exporter) ExportToString(g forms.Group) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(g, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExportToFile exports the group to a file. Every row is materialized
// in memory before the destination is opened, so a failed export never
// leaves a half-written file behind.
func (e *Exporter) ExportToFile(g forms.Group, filename string) error {
	var buf bytes.Buffer
	if err := e.Export(g, &buf); err != nil {
		return err
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// ExportAll exports every group into dir, one file per group named
// after its label, and returns the written paths in group order.
func (e *Exporter) ExportAll(groups []forms.Group, dir string) ([]string, error) {
	paths := make([]string, 0, len(groups))
	for _, g := range groups {
		path := filepath.Join(dir, DefaultFilename(g.Label, e.config.Format))
		if err := e.ExportToFile(g, path); err != nil {
			return paths, fmt.Errorf("exporting group %q: %w", g.Label, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// exportCSV serializes the group as CSV or TSV. encoding/csv applies
// standard quoting to fields containing the delimiter, quotes, or
// newlines.
func (e *Exporter) exportCSV(g forms.Group, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.config.CSVDelimiter

	schema := g.Schema()
	if e.config.IncludeHeader {
		if err := csvWriter.Write(schema); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, r := range g.Records {
		row := r.Row(schema)
		if e.sanitizer != nil {
			for j, cell := range row {
				row[j] = e.cleanValue(cell)
			}
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// cleanValue strips residual markup from a cell value.
func (e *Exporter) cleanValue(s string) string {
	return html.UnescapeString(e.sanitizer.Sanitize(s))
}

// DefaultFilename derives an output file name from a form label:
// lowercased, spaces replaced with underscores, plus the format's
// extension.
func DefaultFilename(label string, format ExportFormat) string {
	name := strings.ToLower(strings.TrimSpace(label))
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	if name == "" {
		name = "form"
	}
	return name + format.FileExtension()
}
