// Package forms assembles field-survey records from placemarks and
// groups them by the classification heading found in their
// descriptions.
package forms

import (
	"github.com/tsawler/geoform/desc"
	"github.com/tsawler/geoform/kml"
)

// NoForm is the sentinel label grouping records whose description has
// no recognizable classification heading.
const NoForm = "__NO_FORM__"

// Record is a single extracted field-survey record. Coordinate fields
// stay textual to preserve the source precision and formatting.
type Record struct {
	Name      string
	Longitude string
	Latitude  string
	Altitude  string

	// Form is the classification label from the description's first
	// heading, or NoForm when Labeled is false.
	Form    string
	Labeled bool

	// Extra holds the key/value attributes recovered from the
	// description's tables, in source order.
	Extra *desc.Fields
}

// NewRecord builds a Record from a placemark. The description markup
// is parsed exactly once here, yielding both the grouping label and
// the extra attributes.
func NewRecord(p kml.Placemark) Record {
	lon, lat, alt := kml.SplitCoordinates(p.Coordinates)
	d := desc.Parse(p.Description)

	r := Record{
		Name:      p.Name,
		Longitude: lon,
		Latitude:  lat,
		Altitude:  alt,
		Form:      NoForm,
		Extra:     d.Fields,
	}
	if d.HasHeading {
		r.Form = d.Heading
		r.Labeled = true
	}
	return r
}

// Row serializes the record under a schema produced by Group.Schema:
// the four fixed columns positionally, then extra-attribute lookups.
// Schema columns missing from the record render as empty cells, and
// record attributes absent from the schema are silently dropped.
func (r Record) Row(schema []string) []string {
	row := make([]string, len(schema))
	for i, col := range schema {
		switch i {
		case 0:
			row[i] = r.Name
		case 1:
			row[i] = r.Longitude
		case 2:
			row[i] = r.Latitude
		case 3:
			row[i] = r.Altitude
		default:
			if r.Extra != nil {
				row[i] = r.Extra.Get(col)
			}
		}
	}
	return row
}
