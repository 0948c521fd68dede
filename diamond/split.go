// Package diamond handles double diamond projects. It splits a project
// document into a description and its phase sections, and drives the
// phase carousel.
package diamond

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Section markers as written in content.md.
const (
	StartMarker = "<!-- DOUBLE DIAMOND START -->"
	EndMarker   = "<!-- DOUBLE DIAMOND END -->"
)

var (
	reStart = regexp.MustCompile(`(?i)<!--\s*DOUBLE\s+DIAMOND\s+START\s*-->`)
	reEnd   = regexp.MustCompile(`(?i)<!--\s*DOUBLE\s+DIAMOND\s+END\s*-->`)
)

// ErrPhaseMismatch is returned when a document's section count does not
// match the phase catalog.
var ErrPhaseMismatch = errors.New("diamond: phase count mismatch")

// Section is one level-2 heading and the text under it.
type Section struct {
	Heading string
	Body    string
}

// Document is a split project document.
type Document struct {
	// Description is the free text before the start marker.
	Description string
	// Sections are the phase sections between the markers, in source order.
	Sections []Section
	// Epilogue is any text after the end marker.
	Epilogue string
	// Found reports whether a start marker was present.
	Found bool
}

// Split parses md. Without a start marker the whole document is the
// description. Without an end marker the phase span runs to the end.
// Text between the start marker and the first heading is dropped.
func Split(md string) Document {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	loc := reStart.FindStringIndex(md)
	if loc == nil {
		return Document{Description: strings.TrimSpace(md)}
	}
	doc := Document{Description: strings.TrimSpace(md[:loc[0]]), Found: true}
	span := md[loc[1]:]
	if end := reEnd.FindStringIndex(span); end != nil {
		doc.Epilogue = strings.TrimSpace(span[end[1]:])
		span = span[:end[0]]
	}

	var cur *Section
	var body []string
	flush := func() {
		if cur != nil {
			cur.Body = strings.TrimSpace(strings.Join(body, "\n"))
			doc.Sections = append(doc.Sections, *cur)
		}
		body = body[:0]
	}
	for _, line := range strings.Split(span, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			cur = &Section{Heading: strings.TrimSpace(line[3:])}
			continue
		}
		if cur != nil {
			body = append(body, line)
		}
	}
	flush()
	return doc
}

// Placeholder is shown for phases the document does not cover.
const Placeholder = "_This phase has not been written up yet._"

// Assemble fills a copy of catalog with the document's sections. Phases
// without a section get Placeholder. A count mismatch is reported as a
// wrapped ErrPhaseMismatch alongside the usable phases.
func Assemble(doc Document, catalog []Phase, illustrations map[string]string) ([]Phase, error) {
	phases := make([]Phase, len(catalog))
	copy(phases, catalog)
	for i := range phases {
		if img, ok := illustrations[phases[i].ID]; ok && img != "" {
			phases[i].Illustration = img
		}
		if i < len(doc.Sections) {
			phases[i].Body = doc.Sections[i].Body
		} else {
			phases[i].Body = Placeholder
		}
	}
	if len(doc.Sections) != len(catalog) {
		return phases, fmt.Errorf("%w: found %d sections, want %d", ErrPhaseMismatch, len(doc.Sections), len(catalog))
	}
	return phases, nil
}
