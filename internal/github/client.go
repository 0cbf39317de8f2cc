// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"

	"github.com/caseproof/summarize/internal/checklist"
	"github.com/caseproof/summarize/internal/config"
	"github.com/caseproof/summarize/internal/logging"
	"github.com/caseproof/summarize/pkg/models"
)

// Client encapsulates the GitHub API client.
type Client struct {
	client *github.Client
	login  string
	search searchFunc
}

// searchFunc runs one work-item query for an organization.
type searchFunc func(ctx context.Context, org string, category models.Category, query string) ([]models.WorkItem, error)

// QueryError reports that one organization's work-item queries failed.
// The run continues with the remaining organizations; a partial
// checklist beats none.
type QueryError struct {
	Organization string
	Category     models.Category
	Err          error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s for organization %s failed: %v", e.Category, e.Organization, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// searchQueries are the per-organization Search API queries, in
// presentation order. Draft pull requests are excluded at the query
// level so they never reach the consolidation engine.
var searchQueries = []struct {
	category models.Category
	query    string
}{
	{models.CategoryAssignedIssue, "org:%s assignee:%s is:open is:issue archived:false"},
	{models.CategoryReviewRequest, "org:%s review-requested:%s is:open is:pr draft:false archived:false"},
	{models.CategoryAuthoredPR, "org:%s author:%s is:open is:pr draft:false archived:false"},
}

// NewClient creates a new GitHub API client from the given
// configuration. It initializes the client with the appropriate base
// URL, authenticates with the GitHub API, and tests the connection.
// It returns the configured client or an error if initialization fails.
func NewClient(cfg *config.Config) (*Client, error) {
	if err := config.ValidateGitHubConfig(cfg); err != nil {
		return nil, err
	}

	domain := cfg.GitHub.Domain
	if domain == "" {
		domain = "github.com"
	}

	// Construct API URL based on domain
	var apiURL string
	if domain == "github.com" {
		apiURL = "https://api.github.com/"
	} else {
		apiURL = fmt.Sprintf("https://%s/api/v3/", domain)
	}

	logging.Debug("github configuration",
		"domain", domain,
		"api_url", apiURL,
		"token_length", len(cfg.GitHub.Token))

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.GitHub.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client := github.NewClient(tc)

	// If not using default GitHub.com, set custom API endpoint
	if domain != "github.com" {
		parsedURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}

		client.BaseURL = parsedURL
		client.UploadURL = parsedURL
	}

	// Test the token and learn the authenticated login for the
	// assignee/author/review-requested qualifiers.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		logging.Error("failed to test github token", "error", err)
		return nil, fmt.Errorf("error testing github token: %w", err)
	}

	logging.Info("github authentication successful",
		"username", user.GetLogin())

	c := &Client{client: client, login: user.GetLogin()}
	c.search = c.searchWorkItems
	return c, nil
}

// FetchWorkItems retrieves the user's open work items across the given
// organizations: assigned issues, requested reviews and authored pull
// requests, drafts excluded.
//
// A failing organization is reported in the returned QueryError slice
// and contributes no items at all: batches already collected from its
// earlier categories are discarded, so a skipped organization really
// is absent from the result. The remaining organizations are still
// queried. Items are deduplicated by URL across queries, the daily
// checklist issue itself is filtered out, and within one organization
// and category items are ordered by repository then number.
func (c *Client) FetchWorkItems(ctx context.Context, organizations []string) ([]models.WorkItem, []*QueryError) {
	search := c.search
	if search == nil {
		search = c.searchWorkItems
	}

	var items []models.WorkItem
	var failures []*QueryError
	seen := make(map[string]bool)

	for _, org := range organizations {
		var orgItems []models.WorkItem
		var failure *QueryError
		for _, sq := range searchQueries {
			batch, err := search(ctx, org, sq.category, fmt.Sprintf(sq.query, org, c.login))
			if err != nil {
				failure = &QueryError{Organization: org, Category: sq.category, Err: err}
				break
			}
			orgItems = append(orgItems, batch...)
		}
		if failure != nil {
			logging.Warn("organization query failed",
				"organization", failure.Organization,
				"category", string(failure.Category),
				"error", failure.Err)
			failures = append(failures, failure)
			continue
		}
		for _, item := range orgItems {
			key := strings.ToLower(strings.TrimRight(item.URL, "/"))
			if seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, item)
		}
	}

	return items, failures
}

// searchWorkItems runs one Search API query, following pagination and
// converting results to the internal model.
func (c *Client) searchWorkItems(ctx context.Context, org string, category models.Category, query string) ([]models.WorkItem, error) {
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var results []*github.Issue
	for {
		page, resp, err := c.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search github issues: %w", err)
		}

		results = append(results, page.Issues...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	items := make([]models.WorkItem, 0, len(results))
	for _, issue := range results {
		title := issue.GetTitle()
		if checklist.IsAutomationTitle(title) {
			continue
		}
		if issue.GetHTMLURL() == "" {
			continue
		}
		items = append(items, models.WorkItem{
			Category:     category,
			Organization: org,
			Repository:   repoSlug(issue),
			Number:       issue.GetNumber(),
			Title:        title,
			URL:          issue.GetHTMLURL(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Repository != items[j].Repository {
			return strings.ToLower(items[i].Repository) < strings.ToLower(items[j].Repository)
		}
		return items[i].Number < items[j].Number
	})

	logging.Debug("organization query complete",
		"organization", org,
		"category", string(category),
		"items", len(items))

	return items, nil
}

// repoSlug extracts the "owner/repo" slug for a search result, from
// the repository API URL when present, otherwise from the html link.
func repoSlug(issue *github.Issue) string {
	if repoURL := issue.GetRepositoryURL(); repoURL != "" {
		if idx := strings.Index(repoURL, "/repos/"); idx >= 0 {
			return repoURL[idx+len("/repos/"):]
		}
	}
	parts := strings.Split(strings.TrimPrefix(issue.GetHTMLURL(), "https://"), "/")
	if len(parts) >= 3 {
		return parts[1] + "/" + parts[2]
	}
	return "unknown"
}
