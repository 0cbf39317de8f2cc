// Package models defines data structures shared across the application.
package models

// Category classifies a unit of open work by how it landed on the
// user's plate.
type Category string

const (
	// CategoryAssignedIssue is an open issue assigned to the user.
	CategoryAssignedIssue Category = "assigned-issues"

	// CategoryReviewRequest is an open pull request awaiting the
	// user's review.
	CategoryReviewRequest Category = "review-requests"

	// CategoryAuthoredPR is an open pull request the user authored.
	CategoryAuthoredPR Category = "authored-prs"
)

// WorkItem represents one unit of open work returned by the GitHub
// queries.
type WorkItem struct {
	// Category is the kind of work (assigned issue, review request
	// or authored pull request).
	Category Category

	// Organization is the GitHub organization the item was found under.
	Organization string

	// Repository is the repository slug in "owner/repo" form.
	Repository string

	// Number is the issue or pull request number within the repository.
	Number int

	// Title is the issue or pull request title.
	Title string

	// URL is the canonical html link to the item.
	URL string
}

// TrackerIssue represents a GitHub issue used as the storage medium
// for a daily checklist in issue mode.
type TrackerIssue struct {
	// Number is the issue number within the storage repository.
	Number int

	// Title is the issue title, e.g. "Todos for 2026-08-31".
	Title string

	// Body is the rendered checklist document.
	Body string

	// URL is the html link to the issue.
	URL string

	// State is the issue state, "open" or "closed".
	State string
}
