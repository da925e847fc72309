package kml

import (
	"errors"
	"strings"
	"testing"
)

const surveyDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>survey export</name>
    <Placemark>
      <name>  Oak Stand 1  </name>
      <description>&lt;h1&gt;Tree Survey&lt;/h1&gt;</description>
      <Point>
        <coordinates>30.52,50.45,180</coordinates>
      </Point>
    </Placemark>
    <Folder>
      <name>day two</name>
      <Placemark>
        <name>Culvert</name>
        <Point>
          <coordinates> -71.08,42.36 </coordinates>
        </Point>
      </Placemark>
    </Folder>
  </Document>
</kml>`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(surveyDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	pms := doc.Placemarks()
	if len(pms) != 2 {
		t.Fatalf("Placemarks returned %d, want 2", len(pms))
	}

	first := pms[0]
	if first.Name != "Oak Stand 1" {
		t.Errorf("Name = %q, want %q", first.Name, "Oak Stand 1")
	}
	if first.Description != "<h1>Tree Survey</h1>" {
		t.Errorf("Description = %q, want %q", first.Description, "<h1>Tree Survey</h1>")
	}
	if first.Coordinates != "30.52,50.45,180" {
		t.Errorf("Coordinates = %q, want %q", first.Coordinates, "30.52,50.45,180")
	}

	second := pms[1]
	if second.Name != "Culvert" {
		t.Errorf("Nested placemark name = %q, want %q", second.Name, "Culvert")
	}
	if second.Coordinates != "-71.08,42.36" {
		t.Errorf("Nested placemark coordinates = %q, want %q", second.Coordinates, "-71.08,42.36")
	}
	if second.Description != "" {
		t.Errorf("Missing description = %q, want empty", second.Description)
	}
}

func TestParse_CDATADescription(t *testing.T) {
	input := `<kml xmlns="http://www.opengis.net/kml/2.2">
<Placemark>
  <name>P1</name>
  <description><![CDATA[<h1>Wells</h1><table><tr><td>depth</td><td>12</td></tr></table>]]></description>
</Placemark>
</kml>`

	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	pms := doc.Placemarks()
	if len(pms) != 1 {
		t.Fatalf("Placemarks returned %d, want 1", len(pms))
	}
	want := `<h1>Wells</h1><table><tr><td>depth</td><td>12</td></tr></table>`
	if pms[0].Description != want {
		t.Errorf("Description = %q, want %q", pms[0].Description, want)
	}
}

func TestParse_FirstCoordinatesDescendantWins(t *testing.T) {
	input := `<kml xmlns="http://www.opengis.net/kml/2.2">
<Placemark>
  <MultiGeometry>
    <Point><coordinates>1,2,3</coordinates></Point>
    <Point><coordinates>4,5,6</coordinates></Point>
  </MultiGeometry>
</Placemark>
</kml>`

	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got, want := doc.Placemarks()[0].Coordinates, "1,2,3"; got != want {
		t.Errorf("Coordinates = %q, want %q", got, want)
	}
}

func TestParse_UnnamespacedPlacemarksIgnored(t *testing.T) {
	input := `<kml><Placemark><name>bare</name></Placemark></kml>`

	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := len(doc.Placemarks()); got != 0 {
		t.Errorf("Placemarks returned %d, want 0 for foreign namespace", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not xml", "this is not a kml document"},
		{"truncated", `<kml xmlns="http://www.opengis.net/kml/2.2"><Placemark><name>cut`},
		{"mismatched tags", `<kml xmlns="http://www.opengis.net/kml/2.2"><Placemark></kml>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Expected parse error")
			}
			if !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("Error = %v, want ErrMalformedDocument", err)
			}
		})
	}
}

func TestParse_UTF8BOM(t *testing.T) {
	input := append([]byte("\xEF\xBB\xBF"), []byte(surveyDoc)...)

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := len(doc.Placemarks()); got != 2 {
		t.Errorf("Placemarks returned %d, want 2", got)
	}
}

func TestParse_UTF16(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-16"?><kml xmlns="http://www.opengis.net/kml/2.2"><Placemark><name>Gate</name></Placemark></kml>`

	// UTF-16LE with byte order mark.
	input := []byte{0xFF, 0xFE}
	for _, r := range src {
		input = append(input, byte(r), 0x00)
	}

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	pms := doc.Placemarks()
	if len(pms) != 1 || pms[0].Name != "Gate" {
		t.Errorf("Placemarks = %+v, want single placemark named Gate", pms)
	}
}

func TestParse_Latin1Label(t *testing.T) {
	input := `<?xml version="1.0" encoding="ISO-8859-1"?><kml xmlns="http://www.opengis.net/kml/2.2"><Placemark><name>Caf` + "\xe9" + `</name></Placemark></kml>`

	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got, want := doc.Placemarks()[0].Name, "Café"; got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
}

func TestParse_LeadingTextOnly(t *testing.T) {
	input := `<kml xmlns="http://www.opengis.net/kml/2.2">
<Placemark><name>North <i>approx</i> ridge</name></Placemark>
</kml>`

	doc, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got, want := doc.Placemarks()[0].Name, "North"; got != want {
		t.Errorf("Name = %q, want %q (text before first child element)", got, want)
	}
}

func TestSplitCoordinates(t *testing.T) {
	tests := []struct {
		input string
		lon   string
		lat   string
		alt   string
	}{
		{"1.0,2.0,3.0", "1.0", "2.0", "3.0"},
		{"1.0,2.0", "1.0", "2.0", ""},
		{"1.0", "1.0", "", ""},
		{"", "", "", ""},
		{"1.0,2.0,3.0,4.0", "1.0", "2.0", "3.0"},
		{"-71.08,42.36,0", "-71.08", "42.36", "0"},
	}

	for _, tt := range tests {
		lon, lat, alt := SplitCoordinates(tt.input)
		if lon != tt.lon || lat != tt.lat || alt != tt.alt {
			t.Errorf("SplitCoordinates(%q) = (%q,%q,%q), want (%q,%q,%q)",
				tt.input, lon, lat, alt, tt.lon, tt.lat, tt.alt)
		}
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(surveyDoc))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if got := len(doc.Placemarks()); got != 2 {
		t.Errorf("Placemarks returned %d, want 2", got)
	}
}
