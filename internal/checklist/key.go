package checklist

import (
	"regexp"
	"strings"
)

var (
	// itemURLPattern matches a canonical issue or pull request link
	// embedded in a checklist line.
	itemURLPattern = regexp.MustCompile(`https?://[^\s<>)]+/(?:issues|pull)/[0-9]+`)

	// repoRefPattern matches a textual owner/repo#number reference.
	repoRefPattern = regexp.MustCompile(`[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+#[0-9]+`)
)

// KeyForURL derives the identity key for a canonical item URL. The
// URL encodes organization, repository, kind (issue vs pull request)
// and number, so matching keys identify the same unit of work.
func KeyForURL(url string) string {
	return strings.ToLower(strings.TrimRight(url, "/"))
}

// KeyForLine derives the identity key for a checklist line: the
// embedded canonical URL when present, else an owner/repo#number
// reference, else the normalized line text.
func KeyForLine(text string) string {
	if url := itemURLPattern.FindString(text); url != "" {
		return KeyForURL(url)
	}
	if ref := repoRefPattern.FindString(text); ref != "" {
		return strings.ToLower(ref)
	}
	return NormalizeTextKey(text)
}

// NormalizeTextKey derives a key from free text: trimmed and with
// whitespace collapsed to single spaces, case preserved.
func NormalizeTextKey(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
