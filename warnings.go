package geoform

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal issue encountered during extraction.
// Extraction succeeded but the results may be incomplete or imperfect.
type Warning struct {
	// Op identifies the processing stage that produced the warning.
	Op string

	// Message is a human-readable description of the issue.
	Message string
}

// String returns the warning in "op: message" form.
func (w Warning) String() string {
	if w.Op == "" {
		return w.Message
	}
	return w.Op + ": " + w.Message
}

// FormatWarnings joins warnings into a single semicolon-separated string
// suitable for logging.
//
// Example:
//
//	records, warnings, err := geoform.Open("survey.kmz").Records()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", geoform.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// addWarning appends a formatted warning to the accumulated list.
func (e *Extractor) addWarning(op, msg string, args ...any) {
	e.warnings = append(e.warnings, Warning{Op: op, Message: fmt.Sprintf(msg, args...)})
}
