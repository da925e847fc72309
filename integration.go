// integration.go provides one-call helpers that combine extraction and export
package geoform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/geoform/export"
	"github.com/tsawler/geoform/forms"
)

// ConvertAll extracts every form group from input and writes one file per
// group into outputDir, creating the directory if needed. It returns the
// written paths in group order.
//
// Example:
//
//	paths, warnings, err := geoform.ConvertAll("survey.kmz", "out", export.DefaultExportConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range paths {
//	    fmt.Println("wrote", p)
//	}
func ConvertAll(input, outputDir string, config export.ExportConfig) ([]string, []Warning, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating output directory: %w", err)
	}
	return Open(input).ExportAllWithConfig(outputDir, config)
}

// ConvertFile extracts a single form group from input and writes it into
// outputDir under the group's default filename. It returns the written
// path.
//
// Example:
//
//	path, warnings, err := geoform.ConvertFile("survey.kmz", "out", "Tree Survey", export.DefaultExportConfig())
func ConvertFile(input, outputDir, label string, config export.ExportConfig) (string, []Warning, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", nil, fmt.Errorf("creating output directory: %w", err)
	}

	groups, warnings, err := Open(input).Groups()
	if err != nil {
		return "", warnings, err
	}

	g, ok := forms.Find(groups, label)
	if !ok {
		return "", warnings, fmt.Errorf("no form group %q", label)
	}

	path := filepath.Join(outputDir, export.DefaultFilename(label, config.Format))
	if err := export.NewExporterWithConfig(config).ExportToFile(g, path); err != nil {
		return "", warnings, err
	}
	return path, warnings, nil
}
