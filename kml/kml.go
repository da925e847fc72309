// Package kml parses KML placemark documents: namespaced XML carrying
// geographic point records with names, coordinate tuples, and free-form
// description markup.
package kml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Namespace is the OGC KML 2.2 namespace URI. Placemark elements and
// their children are only recognized under this namespace.
const Namespace = "http://www.opengis.net/kml/2.2"

// ErrMalformedDocument indicates the document could not be parsed as XML.
var ErrMalformedDocument = errors.New("kml: malformed document")

// Document is a parsed KML document.
type Document struct {
	placemarks []Placemark
}

// Parse parses KML document bytes.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses a KML document from a reader. Byte order marks are
// honored (some exporters write UTF-16 KML) and non-UTF-8 documents are
// decoded according to their XML prolog charset label.
func ParseReader(r io.Reader) (*Document, error) {
	bom := unicode.BOMOverride(encoding.Nop.NewDecoder())
	dec := xml.NewDecoder(transform.NewReader(r, bom))
	dec.CharsetReader = charsetReader

	doc := &Document{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "Placemark" || se.Name.Space != Namespace {
			continue
		}

		pm, err := parsePlacemark(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		doc.placemarks = append(doc.placemarks, pm)
	}

	return doc, nil
}

// Placemarks returns every placemark in document order, regardless of
// folder nesting depth.
func (d *Document) Placemarks() []Placemark {
	return d.placemarks
}

// charsetReader decodes prolog-labeled charsets. Unicode labels pass
// through untouched: the BOM transform has already normalized those
// streams to UTF-8, and re-decoding them would corrupt the input.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf-16", "utf-16le", "utf-16be":
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// capture targets inside a Placemark subtree.
const (
	capNone = iota
	capName
	capDescription
	capCoordinates
)

// parsePlacemark consumes the remainder of a Placemark element. It
// records the trimmed text of the direct name and description children
// and of the first coordinates descendant at any depth. Leading text
// only: a child element inside a captured element ends its text, the
// way tree-based parsers expose element text.
func parsePlacemark(dec *xml.Decoder) (Placemark, error) {
	var (
		pm         Placemark
		buf        strings.Builder
		capturing  = capNone
		nameDone   bool
		descDone   bool
		coordsDone bool
	)

	finish := func() {
		text := strings.TrimSpace(buf.String())
		switch capturing {
		case capName:
			pm.Name = text
			nameDone = true
		case capDescription:
			pm.Description = text
			descDone = true
		case capCoordinates:
			pm.Coordinates = text
			coordsDone = true
		}
		capturing = capNone
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return Placemark{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if capturing != capNone {
				finish()
			}
			direct := depth == 1
			depth++
			if t.Name.Space != Namespace {
				continue
			}
			buf.Reset()
			switch {
			case direct && t.Name.Local == "name" && !nameDone:
				capturing = capName
			case direct && t.Name.Local == "description" && !descDone:
				capturing = capDescription
			case t.Name.Local == "coordinates" && !coordsDone:
				capturing = capCoordinates
			}

		case xml.EndElement:
			if capturing != capNone {
				finish()
			}
			depth--

		case xml.CharData:
			if capturing != capNone {
				buf.Write(t)
			}
		}
	}

	return pm, nil
}
