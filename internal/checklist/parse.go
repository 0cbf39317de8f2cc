package checklist

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrMalformedInput is returned when a stored document cannot be
// decoded as text at all. Structurally odd but decodable documents
// parse loosely instead of failing.
var ErrMalformedInput = errors.New("stored checklist is not decodable as text")

var (
	titlePattern    = regexp.MustCompile(`^#\s+Todos\s+\S+\s+(\d{4}-\d{2}-\d{2})\s*$`)
	headingPattern  = regexp.MustCompile(`^##\s+(.+?)\s*$`)
	checkboxPattern = regexp.MustCompile(`^\s*[-*]\s*\[\s*([xX ])\s*\]\s*(.+?)\s*$`)
	skippedPattern  = regexp.MustCompile(`^_Skipped organizations due to query errors:\s*(.+?)_\s*$`)
)

// Parse reconstructs a Document from previously rendered text.
//
// The grammar is deliberately loose: group headings, checkbox lines,
// the title line and the skipped-organizations note are recognized;
// every other line is ignored so that hand-edited checklists never
// fail a later run. Checkbox lines seen before any heading land in
// GroupOther. Duplicate keys keep the first occurrence.
func Parse(input string) (*Document, error) {
	if !utf8.ValidString(input) || strings.ContainsRune(input, 0) {
		return nil, ErrMalformedInput
	}

	doc := NewDocument("")
	group := ""
	for _, line := range strings.Split(input, "\n") {
		if m := titlePattern.FindStringSubmatch(line); m != nil {
			doc.Date = m[1]
			continue
		}
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			group = m[1]
			continue
		}
		if m := skippedPattern.FindStringSubmatch(line); m != nil {
			for _, org := range strings.Split(m[1], ",") {
				org = strings.TrimSpace(org)
				if org != "" {
					doc.SkippedOrgs = append(doc.SkippedOrgs, org)
				}
			}
			continue
		}
		m := checkboxPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		marker, text := m[1], m[2]
		doc.Add(group, Item{
			Key:  KeyForLine(text),
			Text: text,
			Done: strings.EqualFold(marker, "x"),
		})
	}
	return doc, nil
}
