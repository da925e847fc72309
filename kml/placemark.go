package kml

import "strings"

// Placemark is a single geographic point record.
type Placemark struct {
	Name        string // Trimmed text of the name child, empty when absent
	Description string // Trimmed markup of the description child, empty when absent
	Coordinates string // Trimmed text of the first coordinates descendant, empty when absent
}

// SplitCoordinates splits a comma-separated coordinate tuple into its
// longitude, latitude, and altitude components. The first up to three
// tokens are assigned positionally; unassigned slots stay empty. Tokens
// are kept as text to preserve the source precision and formatting, and
// short or over-long tuples are never an error.
//
// Example:
//
//	lon, lat, alt := kml.SplitCoordinates("30.52,50.45,180")
func SplitCoordinates(s string) (longitude, latitude, altitude string) {
	parts := strings.Split(s, ",")
	longitude = parts[0]
	if len(parts) > 1 {
		latitude = parts[1]
	}
	if len(parts) > 2 {
		altitude = parts[2]
	}
	return longitude, latitude, altitude
}

// Position returns the placemark's coordinate tuple split into
// longitude, latitude, and altitude.
func (p Placemark) Position() (longitude, latitude, altitude string) {
	return SplitCoordinates(p.Coordinates)
}
