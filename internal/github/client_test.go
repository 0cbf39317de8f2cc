package github

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-github/v41/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseproof/summarize/pkg/models"
)

func TestRepoSlug(t *testing.T) {
	tests := []struct {
		name  string
		issue *github.Issue
		want  string
	}{
		{
			name: "from repository api url",
			issue: &github.Issue{
				RepositoryURL: github.String("https://api.github.com/repos/acme/site"),
				HTMLURL:       github.String("https://github.com/acme/site/issues/1"),
			},
			want: "acme/site",
		},
		{
			name: "falls back to html url",
			issue: &github.Issue{
				HTMLURL: github.String("https://github.com/acme/site/pull/2"),
			},
			want: "acme/site",
		},
		{
			name:  "unknown when neither is usable",
			issue: &github.Issue{},
			want:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repoSlug(tt.issue))
		})
	}
}

func TestQueryError(t *testing.T) {
	cause := errors.New("403 rate limit exceeded")
	err := &QueryError{Organization: "acme", Category: models.CategoryReviewRequest, Err: cause}

	assert.Contains(t, err.Error(), "acme")
	assert.Contains(t, err.Error(), string(models.CategoryReviewRequest))
	assert.ErrorIs(t, err, cause)
}

func TestFetchWorkItemsDropsPartialOrgOnFailure(t *testing.T) {
	// A later category query failing must not leave the org's earlier
	// batches in the result; a skipped organization contributes
	// nothing.
	c := &Client{login: "me"}
	c.search = func(ctx context.Context, org string, category models.Category, query string) ([]models.WorkItem, error) {
		if org == "acme" && category == models.CategoryReviewRequest {
			return nil, errors.New("rate limited")
		}
		return []models.WorkItem{{
			Category:     category,
			Organization: org,
			Repository:   org + "/repo",
			Number:       1,
			Title:        "Something",
			URL:          fmt.Sprintf("https://github.com/%s/repo/items/%s/1", org, category),
		}}, nil
	}

	items, failures := c.FetchWorkItems(context.Background(), []string{"acme", "globex"})

	for _, item := range items {
		assert.NotEqual(t, "acme", item.Organization)
	}
	assert.Len(t, items, 3, "all three globex categories survive")

	require.Len(t, failures, 1)
	assert.Equal(t, "acme", failures[0].Organization)
	assert.Equal(t, models.CategoryReviewRequest, failures[0].Category)
}

func TestFetchWorkItemsDeduplicatesAcrossQueries(t *testing.T) {
	c := &Client{login: "me"}
	c.search = func(ctx context.Context, org string, category models.Category, query string) ([]models.WorkItem, error) {
		// Every category returns the same pull request.
		return []models.WorkItem{{
			Category:     category,
			Organization: org,
			Repository:   org + "/repo",
			Number:       7,
			Title:        "Shared",
			URL:          "https://github.com/" + org + "/repo/pull/7",
		}}, nil
	}

	items, failures := c.FetchWorkItems(context.Background(), []string{"acme"})

	assert.Empty(t, failures)
	require.Len(t, items, 1)
	assert.Equal(t, models.CategoryAssignedIssue, items[0].Category, "first category wins")
}

func TestSearchQueriesExcludeDrafts(t *testing.T) {
	for _, sq := range searchQueries {
		query := fmt.Sprintf(sq.query, "acme", "someone")
		assert.Contains(t, query, "org:acme")
		assert.Contains(t, query, "is:open")
		if sq.category != models.CategoryAssignedIssue {
			assert.Contains(t, query, "draft:false", "pull request queries must exclude drafts")
		}
	}
}
