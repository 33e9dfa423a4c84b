// Package transcript maintains the per-session transcript document: one
// labeled section per question index, replaceable independently.
//
// The document format is line-oriented. Each section begins with a header
// line of the form "=== Question <N> ===" followed by the transcript text;
// sections are separated by a blank line. Replacement is structural: the
// document is parsed into sections, the section with the matching index is
// removed, and a fresh section is appended, so repeated uploads of the same
// question never duplicate and never disturb the other sections.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// headerPattern matches a section header line and captures the question index.
var headerPattern = regexp.MustCompile(`^=== Question (\d+) ===$`)

// Section is one labeled block of the transcript document.
type Section struct {
	Question int
	Text     string
}

// Document is the parsed form of a session's transcript file.
type Document struct {
	Sections []Section
}

// Parse reads a raw transcript document into its sections. Text before the
// first header is ignored; a malformed header line is treated as section
// body, never as a delimiter.
func Parse(raw string) Document {
	var doc Document
	var current *Section
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(body, "\n"))
		doc.Sections = append(doc.Sections, *current)
		current = nil
		body = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		if match := headerPattern.FindStringSubmatch(line); match != nil {
			flush()
			index, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			current = &Section{Question: index}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()
	return doc
}

// Upsert removes any existing section for the question index and appends a
// fresh one at the end. The relative order of untouched sections is
// preserved.
func (d *Document) Upsert(questionIndex int, text string) {
	kept := d.Sections[:0]
	for _, section := range d.Sections {
		if section.Question != questionIndex {
			kept = append(kept, section)
		}
	}
	d.Sections = append(kept, Section{
		Question: questionIndex,
		Text:     strings.TrimSpace(text),
	})
}

// Section returns the section for a question index, if present.
func (d Document) Section(questionIndex int) (Section, bool) {
	for _, section := range d.Sections {
		if section.Question == questionIndex {
			return section, true
		}
	}
	return Section{}, false
}

// Render serializes the document back to its on-disk form.
func (d Document) Render() string {
	if len(d.Sections) == 0 {
		return ""
	}
	parts := make([]string, 0, len(d.Sections))
	for _, section := range d.Sections {
		parts = append(parts, fmt.Sprintf("=== Question %d ===\n%s", section.Question, section.Text))
	}
	return strings.Join(parts, "\n\n") + "\n"
}
