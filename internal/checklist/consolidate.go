package checklist

import (
	"fmt"
	"strings"

	"github.com/caseproof/summarize/pkg/models"
)

// Consolidate merges yesterday's unfinished items with today's freshly
// retrieved work items into a new document for the given date.
//
// Carryover runs first: every unfinished item from yesterday keeps its
// group and relative order, so older work always precedes today's
// additions within a group. Yesterday's finished items are dropped but
// their keys are remembered; a work item that matches a finished key is
// inserted checked, so completed work never resurfaces unchecked.
// Today's items are deduplicated against the carryover by key and
// grouped by organization in the order organizations first appear in
// the source results.
//
// A nil yesterday and an empty item slice are both valid; the result is
// then an empty, renderable document.
func Consolidate(date string, yesterday *Document, today []models.WorkItem, skippedOrgs []string) *Document {
	doc := NewDocument(date)
	doc.SkippedOrgs = append([]string(nil), skippedOrgs...)

	finished := make(map[string]bool)
	if yesterday != nil {
		for _, group := range yesterday.Groups() {
			for _, item := range yesterday.Items(group) {
				if item.Done {
					finished[item.Key] = true
					continue
				}
				doc.Add(group, item)
			}
		}
	}

	for _, work := range today {
		item := Item{
			Key:  KeyForURL(work.URL),
			Text: FormatWorkItem(work),
		}
		if item.Key == "" {
			item.Key = NormalizeTextKey(item.Text)
		}
		if doc.Has(item.Key) {
			continue
		}
		item.Done = finished[item.Key]
		doc.Add(work.Organization, item)
	}

	return doc
}

// FormatWorkItem renders a work item as checklist line text: an
// imperative verb for its category plus a markdown link.
func FormatWorkItem(work models.WorkItem) string {
	title := strings.Join(strings.Fields(work.Title), " ")
	link := fmt.Sprintf("[%s#%d %s](%s)", work.Repository, work.Number, title, work.URL)
	switch work.Category {
	case models.CategoryReviewRequest:
		return fmt.Sprintf("Review %s.", link)
	case models.CategoryAuthoredPR:
		return fmt.Sprintf("Follow up on %s.", link)
	default:
		return fmt.Sprintf("Triage %s.", link)
	}
}
