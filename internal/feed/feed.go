// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed parses Atom-style result feeds into Paper records.
// Implements: prd001-aggregation (R2.1-R2.5);
//
//	docs/ARCHITECTURE § Feed Normalization.
//
// Parsing is tokenizer-based (encoding/xml), never positional: element
// fragments are located by tag boundary, field text by local element name.
// Extraction never fails — a missing field yields an empty string and a
// partial entry still yields a record with placeholder values. Partial
// data beats no data.
package feed

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// Placeholder values for entries missing a field (R2.4).
const (
	PlaceholderTitle    = "Untitled"
	PlaceholderAuthor   = "Unknown"
	PlaceholderAbstract = "No abstract available"
)

// AbstractPreviewLen is the abstract truncation length used by callers
// that request a preview (R3.2).
const AbstractPreviewLen = 300

// pdfURLPattern synthesizes a PDF link from an arXiv identifier when the
// feed carries no explicit PDF link.
const pdfURLPattern = "https://arxiv.org/pdf/"

// newDecoder returns a tokenizer tuned for feeds in the wild: lax about
// undeclared entities and unclosed markup so a malformed tail never aborts
// the fields already extracted.
func newDecoder(s string) *xml.Decoder {
	d := xml.NewDecoder(strings.NewReader(s))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	return d
}

// Entries splits a raw feed document into its <entry> fragments, in
// document order. A document with zero entries yields an empty slice,
// never an error (R2.1).
func Entries(doc string) []string {
	var (
		fragments []string
		depth     int
		start     int64
	)

	d := newDecoder(doc)
	for {
		pos := d.InputOffset()
		tok, err := d.RawToken()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "entry" {
				if depth == 0 {
					start = pos
				}
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == "entry" && depth > 0 {
				depth--
				if depth == 0 {
					fragments = append(fragments, doc[start:d.InputOffset()])
				}
			}
		}
	}
	return fragments
}

// Field returns the text content of the first element named name inside
// fragment, whitespace-trimmed. CDATA sections are unwrapped by the
// tokenizer and attributes on the opening tag are ignored. Returns ""
// when the field is absent; never fails (R2.2).
func Field(fragment, name string) string {
	d := newDecoder(fragment)
	for {
		tok, err := d.Token()
		if err != nil {
			return ""
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != name {
			continue
		}
		return strings.TrimSpace(elementText(d, name))
	}
}

// elementText collects character data until the matching end element,
// tolerating nested markup inside the element.
func elementText(d *xml.Decoder, name string) string {
	var (
		b     strings.Builder
		depth = 1
	)
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == name {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == name {
				depth--
			}
		}
	}
	return b.String()
}

// Authors returns the text of every <name> element inside an <author>
// block, in document order. No cap is applied here: limiting to "first 3
// + et al." is a presentation decision made by callers (R2.3).
func Authors(fragment string) []string {
	var (
		authors  []string
		inAuthor bool
	)
	d := newDecoder(fragment)
	for {
		tok, err := d.Token()
		if err != nil {
			return authors
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "author":
				inAuthor = true
			case "name":
				if inAuthor {
					if name := strings.TrimSpace(elementText(d, "name")); name != "" {
						authors = append(authors, name)
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "author" {
				inAuthor = false
			}
		}
	}
}

// Categories returns the term attribute of every <category> element, in
// document order. Duplicates are retained (R2.3).
func Categories(fragment string) []string {
	var terms []string
	d := newDecoder(fragment)
	for {
		tok, err := d.Token()
		if err != nil {
			return terms
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "category" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "term" && attr.Value != "" {
				terms = append(terms, attr.Value)
			}
		}
	}
}

// pdfLink returns the href of the first <link> element that advertises a
// PDF target, or "".
func pdfLink(fragment string) string {
	d := newDecoder(fragment)
	for {
		tok, err := d.Token()
		if err != nil {
			return ""
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "link" {
			continue
		}
		var href, title, typ string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "href":
				href = attr.Value
			case "title":
				title = attr.Value
			case "type":
				typ = attr.Value
			}
		}
		if strings.EqualFold(title, "pdf") || typ == "application/pdf" {
			return href
		}
	}
}

// ExtractID derives the external identifier from an entry's id field.
// The part after an "/abs/" segment wins; otherwise the last path segment;
// otherwise the raw field. It never fails on malformed input (R2.2).
func ExtractID(idField string) string {
	if idx := strings.Index(idField, "/abs/"); idx >= 0 {
		return idField[idx+len("/abs/"):]
	}
	if idx := strings.LastIndex(idField, "/"); idx >= 0 && idx+1 < len(idField) {
		return idField[idx+1:]
	}
	return idField
}

// CollapseWhitespace folds all internal whitespace and newlines into
// single spaces and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateAbstract shortens an abstract to AbstractPreviewLen characters
// with an ellipsis marker. Input at or under the limit is returned
// unchanged, so truncation is idempotent for already-short text (R3.2).
func TruncateAbstract(s string) string {
	r := []rune(s)
	if len(r) <= AbstractPreviewLen {
		return s
	}
	return string(r[:AbstractPreviewLen]) + "..."
}

// dateOnly parses a date or date-time field, keeping only the calendar
// date. A time-of-day component after the "T" separator is discarded.
// Unparseable input yields the zero time.
func dateOnly(s string) time.Time {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		s = s[:idx]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SecureURL rewrites an http scheme to https, leaving other input alone.
func SecureURL(s string) string {
	if rest, ok := strings.CutPrefix(s, "http://"); ok {
		return "https://" + rest
	}
	return s
}

// ParseEntry maps one entry fragment to a Paper record. Missing fields
// degrade to placeholders; the record is never dropped (R2.4).
func ParseEntry(fragment string) types.Paper {
	idField := Field(fragment, "id")
	id := ExtractID(idField)

	p := types.Paper{
		ID:         id,
		Title:      CollapseWhitespace(Field(fragment, "title")),
		Abstract:   CollapseWhitespace(Field(fragment, "summary")),
		Authors:    Authors(fragment),
		Categories: Categories(fragment),
		Published:  dateOnly(Field(fragment, "published")),
		Updated:    dateOnly(Field(fragment, "updated")),
		URL:        SecureURL(idField),
		Source:     "arxiv",
	}

	if p.Title == "" {
		p.Title = PlaceholderTitle
	}
	if p.Abstract == "" {
		p.Abstract = PlaceholderAbstract
	}
	if len(p.Authors) == 0 {
		p.Authors = []string{PlaceholderAuthor}
	}

	if href := pdfLink(fragment); href != "" {
		p.PDFURL = SecureURL(href)
	} else if id != "" {
		p.PDFURL = pdfURLPattern + id
	}

	return p
}

// Parse splits a feed document and maps every entry to a Paper. N entry
// boundaries produce exactly N records (R2.1).
func Parse(doc string) []types.Paper {
	entries := Entries(doc)
	papers := make([]types.Paper, 0, len(entries))
	for _, e := range entries {
		papers = append(papers, ParseEntry(e))
	}
	return papers
}
