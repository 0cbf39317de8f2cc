package checklist

import (
	"strings"
)

// Render serializes a document to its persisted markdown form.
//
// Rendering is deterministic: structurally equal documents always
// produce byte-identical text, which is what makes the same-day no-op
// and dry-run comparisons reliable.
func Render(doc *Document) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(doc.Title())
	b.WriteString("\n")

	for _, group := range doc.Groups() {
		items := doc.Items(group)
		if len(items) == 0 {
			continue
		}
		b.WriteString("\n## ")
		b.WriteString(group)
		b.WriteString("\n\n")
		for _, item := range items {
			if item.Done {
				b.WriteString("- [x] ")
			} else {
				b.WriteString("- [ ] ")
			}
			b.WriteString(item.Text)
			b.WriteString("\n")
		}
	}

	if len(doc.SkippedOrgs) > 0 {
		b.WriteString("\n_Skipped organizations due to query errors: ")
		b.WriteString(strings.Join(doc.SkippedOrgs, ", "))
		b.WriteString("_\n")
	}

	return b.String()
}
