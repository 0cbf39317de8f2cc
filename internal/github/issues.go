package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v41/github"

	"github.com/caseproof/summarize/internal/checklist"
	"github.com/caseproof/summarize/internal/logging"
	"github.com/caseproof/summarize/pkg/models"
)

// splitRepository parses an "owner/repo" slug.
func splitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// FindIssueByTitle locates an issue with an exact title in a
// repository, open or closed. It returns nil when no such issue
// exists.
func (c *Client) FindIssueByTitle(ctx context.Context, repository, title string) (*models.TrackerIssue, error) {
	if _, _, err := splitRepository(repository); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("repo:%s in:title %q", repository, title)
	opts := &github.SearchOptions{
		Sort:  "created",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: 20,
		},
	}

	result, _, err := c.client.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search for issue %q in %s: %w", title, repository, err)
	}

	for _, issue := range result.Issues {
		if issue.GetTitle() == title {
			return trackerIssue(issue), nil
		}
	}
	return nil, nil
}

// ListTrackerIssues returns recent checklist-titled issues in a
// repository, open or closed, newest first.
func (c *Client) ListTrackerIssues(ctx context.Context, repository string, limit int) ([]*models.TrackerIssue, error) {
	if _, _, err := splitRepository(repository); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("repo:%s in:title %q", repository, strings.TrimSpace(checklist.TitlePrefix))
	opts := &github.SearchOptions{
		Sort:  "created",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: limit,
		},
	}

	result, _, err := c.client.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist issues in %s: %w", repository, err)
	}

	issues := make([]*models.TrackerIssue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, trackerIssue(issue))
	}
	return issues, nil
}

// CreateIssue opens a new issue and returns it.
func (c *Client) CreateIssue(ctx context.Context, repository, title, body string) (*models.TrackerIssue, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, err
	}

	issue, _, err := c.client.Issues.Create(ctx, owner, repo, &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue %q in %s: %w", title, repository, err)
	}

	logging.Info("created issue", "repository", repository, "number", issue.GetNumber())
	return trackerIssue(issue), nil
}

// UpdateIssue replaces the title and body of an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, repository string, number int, title, body string) error {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	_, _, err = c.client.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to update issue %s#%d: %w", repository, number, err)
	}

	logging.Info("updated issue", "repository", repository, "number", number)
	return nil
}

// ReopenIssue reopens a closed issue.
func (c *Client) ReopenIssue(ctx context.Context, repository string, number int) error {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	_, _, err = c.client.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
		State: github.String("open"),
	})
	if err != nil {
		return fmt.Errorf("failed to reopen issue %s#%d: %w", repository, number, err)
	}

	logging.Info("reopened issue", "repository", repository, "number", number)
	return nil
}

// CloseIssue closes an issue, leaving a comment first when one is
// given.
func (c *Client) CloseIssue(ctx context.Context, repository string, number int, comment string) error {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	if comment != "" {
		_, _, err = c.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
			Body: github.String(comment),
		})
		if err != nil {
			return fmt.Errorf("failed to comment on issue %s#%d: %w", repository, number, err)
		}
	}

	_, _, err = c.client.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
		State: github.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close issue %s#%d: %w", repository, number, err)
	}

	logging.Info("closed issue", "repository", repository, "number", number)
	return nil
}

// trackerIssue converts a GitHub API issue to the internal model.
func trackerIssue(issue *github.Issue) *models.TrackerIssue {
	return &models.TrackerIssue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		URL:    issue.GetHTMLURL(),
		State:  strings.ToLower(issue.GetState()),
	}
}
