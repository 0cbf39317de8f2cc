package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/caseproof/summarize/internal/checklist"
	"github.com/caseproof/summarize/internal/logging"
	"github.com/caseproof/summarize/pkg/models"
)

// recentLookback bounds how many recent checklist issues are scanned
// when locating the previous document.
const recentLookback = 10

// titleDatePattern extracts the trailing date from a checklist issue
// title, legacy title forms included.
var titleDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})$`)

// IssueAPI is the slice of the GitHub client the issue store needs.
type IssueAPI interface {
	FindIssueByTitle(ctx context.Context, repository, title string) (*models.TrackerIssue, error)
	ListTrackerIssues(ctx context.Context, repository string, limit int) ([]*models.TrackerIssue, error)
	CreateIssue(ctx context.Context, repository, title, body string) (*models.TrackerIssue, error)
	UpdateIssue(ctx context.Context, repository string, number int, title, body string) error
	ReopenIssue(ctx context.Context, repository string, number int) error
	CloseIssue(ctx context.Context, repository string, number int, comment string) error
}

// IssueStore persists each day's checklist as a GitHub issue titled
// "Todos for YYYY-MM-DD" in a dedicated repository.
type IssueStore struct {
	api        IssueAPI
	repository string
}

// NewIssueStore returns a store backed by issues in the given
// "owner/repo" repository.
func NewIssueStore(api IssueAPI, repository string) *IssueStore {
	return &IssueStore{api: api, repository: repository}
}

// Read returns the body of the dated issue, or ok=false when no issue
// with that title exists.
func (s *IssueStore) Read(ctx context.Context, date string) (string, bool, error) {
	issue, err := s.api.FindIssueByTitle(ctx, s.repository, checklist.TitlePrefix+date)
	if err != nil {
		return "", false, err
	}
	if issue == nil {
		return "", false, nil
	}
	return issue.Body, true, nil
}

// ReadLatestBefore returns the body of the most recent checklist issue
// dated strictly before the given date, so a weekend or holiday gap
// does not lose carryover.
func (s *IssueStore) ReadLatestBefore(ctx context.Context, date string) (string, bool, error) {
	issues, err := s.api.ListTrackerIssues(ctx, s.repository, recentLookback)
	if err != nil {
		return "", false, err
	}

	// Issues arrive newest first; the first older checklist wins.
	for _, issue := range issues {
		if !checklist.IsAutomationTitle(issue.Title) {
			continue
		}
		if d, ok := titleDate(issue.Title); !ok || d >= date {
			continue
		}
		return issue.Body, true, nil
	}
	return "", false, nil
}

// Write creates the dated issue or replaces its body, reopening it if
// a previous run closed it. Creating today's issue closes the previous
// open checklist issue as superseded. The issue API replaces the body
// in one call, so no partially written document is ever observable.
func (s *IssueStore) Write(ctx context.Context, date, content string) error {
	title := checklist.TitlePrefix + date

	existing, err := s.api.FindIssueByTitle(ctx, s.repository, title)
	if err != nil {
		return fmt.Errorf("failed to locate issue %q: %w", title, err)
	}

	if existing == nil {
		created, err := s.api.CreateIssue(ctx, s.repository, title, content)
		if err != nil {
			return err
		}
		logging.Info("checklist issue created", "url", created.URL)
		s.closePrevious(ctx, date, created.URL)
		return nil
	}

	if err := s.api.UpdateIssue(ctx, s.repository, existing.Number, title, content); err != nil {
		return err
	}
	if existing.State != "open" {
		if err := s.api.ReopenIssue(ctx, s.repository, existing.Number); err != nil {
			return err
		}
	}
	return nil
}

// closePrevious closes the most recent still-open checklist issue
// older than the given date, pointing at its successor. Today's
// document is already written at this point, so a failure here is
// logged rather than failing the run.
func (s *IssueStore) closePrevious(ctx context.Context, date, successorURL string) {
	issues, err := s.api.ListTrackerIssues(ctx, s.repository, recentLookback)
	if err != nil {
		logging.Warn("unable to list previous checklist issues", "error", err)
		return
	}

	for _, issue := range issues {
		if issue.State != "open" || !checklist.IsAutomationTitle(issue.Title) {
			continue
		}
		if d, ok := titleDate(issue.Title); !ok || d >= date {
			continue
		}
		comment := ""
		if successorURL != "" {
			comment = "Superseded by " + successorURL
		}
		if err := s.api.CloseIssue(ctx, s.repository, issue.Number, comment); err != nil {
			logging.Warn("unable to close previous checklist issue",
				"number", issue.Number, "error", err)
		}
		return
	}
}

// Location describes the issue a date's checklist lives in.
func (s *IssueStore) Location(date string) string {
	return fmt.Sprintf("%s %q", s.repository, checklist.TitlePrefix+date)
}

// titleDate extracts the date key from a checklist issue title.
func titleDate(title string) (string, bool) {
	m := titleDatePattern.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return m[1], true
}
