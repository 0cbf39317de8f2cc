// Package checklist implements the daily checklist core: the document
// model, the parser and renderer for the persisted markdown form, and
// the consolidation of yesterday's leftovers with today's work items.
package checklist

import (
	"strings"
	"time"
)

// GroupOther collects carryover lines whose organization could not be
// determined. It always renders after every named group.
const GroupOther = "Other"

// TitlePrefix prefixes the persisted document title for a given day.
const TitlePrefix = "Todos for "

// legacyTitlePrefixes are accepted when scanning for prior documents,
// kept for compatibility with checklists written by older versions.
var legacyTitlePrefixes = []string{"Caseproof Todos for "}

// Item is one checkbox line in a checklist document.
type Item struct {
	// Key uniquely identifies the item within a document. It is the
	// canonical item URL when one is known, otherwise a
	// normalized-text key.
	Key string

	// Text is the literal line content without the checkbox marker.
	Text string

	// Done reports whether the item has been checked off.
	Done bool
}

// Document is one day's checklist: ordered groups of items keyed by
// organization. A document is built once per run and never mutated
// after rendering.
type Document struct {
	// Date is the calendar day the document belongs to, formatted
	// YYYY-MM-DD in the configured local timezone.
	Date string

	// SkippedOrgs names organizations whose queries failed this run.
	SkippedOrgs []string

	order  []string
	groups map[string][]Item
	keys   map[string]bool
}

// NewDocument returns an empty document for the given date.
func NewDocument(date string) *Document {
	return &Document{
		Date:   date,
		groups: make(map[string][]Item),
		keys:   make(map[string]bool),
	}
}

// Add appends an item to the named group, creating the group on first
// use. An item whose key is already present in the document is dropped
// and Add returns false.
func (d *Document) Add(group string, item Item) bool {
	if group == "" {
		group = GroupOther
	}
	if d.keys[item.Key] {
		return false
	}
	d.keys[item.Key] = true
	if _, ok := d.groups[group]; !ok && group != GroupOther {
		d.order = append(d.order, group)
	}
	d.groups[group] = append(d.groups[group], item)
	return true
}

// Has reports whether an item with the given key is present.
func (d *Document) Has(key string) bool {
	return d.keys[key]
}

// Groups returns the non-empty group names in presentation order:
// insertion order of first appearance, with GroupOther last.
func (d *Document) Groups() []string {
	groups := make([]string, 0, len(d.order)+1)
	groups = append(groups, d.order...)
	if len(d.groups[GroupOther]) > 0 {
		groups = append(groups, GroupOther)
	}
	return groups
}

// Items returns the items of a group in insertion order.
func (d *Document) Items(group string) []Item {
	return d.groups[group]
}

// Len returns the total number of items in the document.
func (d *Document) Len() int {
	return len(d.keys)
}

// Title returns the persisted document title for the document's date.
func (d *Document) Title() string {
	return TitlePrefix + d.Date
}

// IsAutomationTitle reports whether a title belongs to a checklist
// document produced by this tool, including legacy title forms. The
// work-item source uses it to keep the daily issue itself out of the
// checklist.
func IsAutomationTitle(title string) bool {
	if strings.HasPrefix(title, TitlePrefix) {
		return true
	}
	for _, prefix := range legacyTitlePrefixes {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// DayKeys returns the date keys for the current and previous calendar
// day of the given local time.
func DayKeys(now time.Time) (today, yesterday string) {
	const layout = "2006-01-02"
	return now.Format(layout), now.AddDate(0, 0, -1).Format(layout)
}
