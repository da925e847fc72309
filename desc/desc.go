// Package desc recovers structured data from the free-form HTML found
// in placemark description fields. Two things are extracted from the
// same fragment: a classification heading (the first h1) and key/value
// attributes (two-cell table rows).
//
// Survey tools emit this markup without any well-formedness guarantee,
// so the parser is a forgiving streaming tag scanner: unclosed tags,
// stray attributes, and bare ampersands are all tolerated, and parse
// trouble degrades to partial or empty results instead of an error.
package desc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Description holds whatever could be recovered from a placemark's
// description markup.
type Description struct {
	// Heading is the trimmed text content of the first h1 element.
	Heading string

	// HasHeading distinguishes a missing heading from an empty one.
	HasHeading bool

	// Fields holds the two-cell table rows in document order.
	Fields *Fields
}

// Parse scans an HTML fragment for the first h1 heading and for
// two-cell table rows. Rows are collected across all tables in
// document order; a row qualifies only when it has exactly two cells
// (td or th). The first cell's trimmed text is the key, the second's
// the value; rows with an empty key are skipped and later duplicate
// keys overwrite earlier values. Parse never fails: malformed input
// yields whatever was salvaged before the scanner stopped.
func Parse(fragment string) Description {
	d := Description{Fields: NewFields()}
	if strings.TrimSpace(fragment) == "" {
		return d
	}

	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		headingBuf  strings.Builder
		inHeading   bool
		headingDone bool

		tableDepth int
		inRow      bool
		inCell     bool
		cells      []string
		cellBuf    strings.Builder

		skipUntil atom.Atom // raw content of an open script/style element
	)

	finishHeading := func() {
		if !inHeading {
			return
		}
		d.Heading = strings.TrimSpace(headingBuf.String())
		d.HasHeading = true
		headingDone = true
		inHeading = false
	}

	flushCell := func() {
		if !inCell {
			return
		}
		cells = append(cells, cellBuf.String())
		cellBuf.Reset()
		inCell = false
	}

	flushRow := func() {
		flushCell()
		if !inRow {
			return
		}
		if len(cells) == 2 {
			key := strings.TrimSpace(cells[0])
			if key != "" {
				d.Fields.Set(key, strings.TrimSpace(cells[1]))
			}
		}
		cells = cells[:0]
		inRow = false
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			// End of input or an unrecoverable tokenizer stop: close
			// whatever is still open and return the salvaged results.
			finishHeading()
			flushRow()
			return d

		case html.TextToken:
			if skipUntil != 0 {
				continue
			}
			text := string(z.Text())
			if inHeading {
				headingBuf.WriteString(text)
			}
			if inCell {
				cellBuf.WriteString(text)
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			if skipUntil != 0 {
				continue
			}
			name, _ := z.TagName()
			a := atom.Lookup(name)

			if inHeading && impliesHeadingEnd(a) {
				finishHeading()
			}

			switch a {
			case atom.Script, atom.Style:
				skipUntil = a
			case atom.H1:
				if !headingDone && !inHeading {
					inHeading = true
					headingBuf.Reset()
				}
			case atom.Table:
				tableDepth++
			case atom.Tr:
				if tableDepth == 0 {
					continue
				}
				flushRow()
				inRow = true
			case atom.Td, atom.Th:
				if tableDepth == 0 {
					continue
				}
				flushCell()
				inRow = true
				inCell = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipUntil != 0 {
				if a == skipUntil {
					skipUntil = 0
				}
				continue
			}

			switch a {
			case atom.H1:
				finishHeading()
			case atom.Table:
				flushRow()
				if tableDepth > 0 {
					tableDepth--
				}
			case atom.Tr:
				flushRow()
			case atom.Td, atom.Th:
				flushCell()
			}
		}
	}
}

// impliesHeadingEnd reports whether an opening tag terminates an
// unclosed h1, the way tree builders imply an end tag for block-level
// content following a heading.
func impliesHeadingEnd(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.P, atom.Div, atom.Table, atom.Tr, atom.Td, atom.Th,
		atom.Ul, atom.Ol, atom.Li, atom.Blockquote, atom.Pre, atom.Hr,
		atom.Section, atom.Article:
		return true
	}
	return false
}
