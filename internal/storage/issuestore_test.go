package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseproof/summarize/pkg/models"
)

// fakeIssueAPI is an in-memory IssueAPI for exercising the store's
// create/update/reopen/close decisions.
type fakeIssueAPI struct {
	issues   map[string]*models.TrackerIssue
	recent   []*models.TrackerIssue
	findErr  error
	listErr  error
	created  []string
	updated  []int
	reopened []int
	closed   []int
	comments map[int]string
}

func newFakeIssueAPI() *fakeIssueAPI {
	return &fakeIssueAPI{
		issues:   make(map[string]*models.TrackerIssue),
		comments: make(map[int]string),
	}
}

func (f *fakeIssueAPI) FindIssueByTitle(ctx context.Context, repository, title string) (*models.TrackerIssue, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.issues[title], nil
}

func (f *fakeIssueAPI) ListTrackerIssues(ctx context.Context, repository string, limit int) ([]*models.TrackerIssue, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeIssueAPI) CreateIssue(ctx context.Context, repository, title, body string) (*models.TrackerIssue, error) {
	issue := &models.TrackerIssue{
		Number: len(f.issues) + 100,
		Title:  title,
		Body:   body,
		URL:    "https://github.com/acme/todos/issues/100",
		State:  "open",
	}
	f.issues[title] = issue
	f.created = append(f.created, title)
	return issue, nil
}

func (f *fakeIssueAPI) UpdateIssue(ctx context.Context, repository string, number int, title, body string) error {
	f.issues[title] = &models.TrackerIssue{Number: number, Title: title, Body: body, State: f.issues[title].State}
	f.updated = append(f.updated, number)
	return nil
}

func (f *fakeIssueAPI) ReopenIssue(ctx context.Context, repository string, number int) error {
	f.reopened = append(f.reopened, number)
	return nil
}

func (f *fakeIssueAPI) CloseIssue(ctx context.Context, repository string, number int, comment string) error {
	f.closed = append(f.closed, number)
	f.comments[number] = comment
	return nil
}

func TestIssueStoreReadMissing(t *testing.T) {
	store := NewIssueStore(newFakeIssueAPI(), "acme/todos")

	content, ok, err := store.Read(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, content)
}

func TestIssueStoreReadExisting(t *testing.T) {
	api := newFakeIssueAPI()
	api.issues["Todos for 2026-08-31"] = &models.TrackerIssue{Number: 5, Body: "body\n", State: "open"}
	store := NewIssueStore(api, "acme/todos")

	content, ok, err := store.Read(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "body\n", content)
}

func TestIssueStoreReadLatestBefore(t *testing.T) {
	api := newFakeIssueAPI()
	api.recent = []*models.TrackerIssue{
		{Number: 9, Title: "Todos for 2026-08-31", Body: "today\n", State: "open"},
		{Number: 8, Title: "Todos for 2026-08-28", Body: "friday\n", State: "open"},
		{Number: 7, Title: "Todos for 2026-08-27", Body: "thursday\n", State: "closed"},
	}
	store := NewIssueStore(api, "acme/todos")

	content, ok, err := store.ReadLatestBefore(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "friday\n", content, "skips today's issue and stops at the first older one")
}

func TestIssueStoreReadLatestBeforeLegacyTitle(t *testing.T) {
	api := newFakeIssueAPI()
	api.recent = []*models.TrackerIssue{
		{Number: 4, Title: "Caseproof Todos for 2026-08-28", Body: "legacy\n", State: "closed"},
	}
	store := NewIssueStore(api, "acme/todos")

	content, ok, err := store.ReadLatestBefore(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "legacy\n", content)
}

func TestIssueStoreReadLatestBeforeSkipsUnrelatedIssues(t *testing.T) {
	api := newFakeIssueAPI()
	api.recent = []*models.TrackerIssue{
		{Number: 6, Title: "Todos for the roadmap", Body: "not dated\n", State: "open"},
		{Number: 5, Title: "Fix the build", Body: "unrelated\n", State: "open"},
	}
	store := NewIssueStore(api, "acme/todos")

	_, ok, err := store.ReadLatestBefore(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIssueStoreReadLatestBeforeNone(t *testing.T) {
	store := NewIssueStore(newFakeIssueAPI(), "acme/todos")

	_, ok, err := store.ReadLatestBefore(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIssueStoreWriteCreatesWhenAbsent(t *testing.T) {
	api := newFakeIssueAPI()
	store := NewIssueStore(api, "acme/todos")

	require.NoError(t, store.Write(context.Background(), "2026-08-31", "body\n"))

	assert.Equal(t, []string{"Todos for 2026-08-31"}, api.created)
	assert.Empty(t, api.updated)
}

func TestIssueStoreWriteClosesPreviousAsSuperseded(t *testing.T) {
	api := newFakeIssueAPI()
	api.recent = []*models.TrackerIssue{
		{Number: 3, Title: "Todos for 2026-08-28", Body: "friday\n", State: "open"},
		{Number: 2, Title: "Todos for 2026-08-27", Body: "thursday\n", State: "open"},
		{Number: 1, Title: "Todos for 2026-08-26", Body: "wednesday\n", State: "closed"},
	}
	store := NewIssueStore(api, "acme/todos")

	require.NoError(t, store.Write(context.Background(), "2026-08-31", "body\n"))

	assert.Equal(t, []int{3}, api.closed, "only the most recent open issue is closed")
	assert.Equal(t, "Superseded by https://github.com/acme/todos/issues/100", api.comments[3])
}

func TestIssueStoreWriteUpdateDoesNotCloseAnything(t *testing.T) {
	api := newFakeIssueAPI()
	api.issues["Todos for 2026-08-31"] = &models.TrackerIssue{Number: 7, Body: "old\n", State: "open"}
	api.recent = []*models.TrackerIssue{
		{Number: 3, Title: "Todos for 2026-08-28", Body: "friday\n", State: "open"},
	}
	store := NewIssueStore(api, "acme/todos")

	require.NoError(t, store.Write(context.Background(), "2026-08-31", "new\n"))

	assert.Equal(t, []int{7}, api.updated)
	assert.Empty(t, api.closed, "rewrites of an existing day leave older issues alone")
}

func TestIssueStoreWriteUpdatesExisting(t *testing.T) {
	api := newFakeIssueAPI()
	api.issues["Todos for 2026-08-31"] = &models.TrackerIssue{Number: 7, Body: "old\n", State: "open"}
	store := NewIssueStore(api, "acme/todos")

	require.NoError(t, store.Write(context.Background(), "2026-08-31", "new\n"))

	assert.Empty(t, api.created)
	assert.Equal(t, []int{7}, api.updated)
	assert.Empty(t, api.reopened, "open issues are not reopened")
}

func TestIssueStoreWriteReopensClosedIssue(t *testing.T) {
	api := newFakeIssueAPI()
	api.issues["Todos for 2026-08-31"] = &models.TrackerIssue{Number: 7, Body: "old\n", State: "closed"}
	store := NewIssueStore(api, "acme/todos")

	require.NoError(t, store.Write(context.Background(), "2026-08-31", "new\n"))

	assert.Equal(t, []int{7}, api.updated)
	assert.Equal(t, []int{7}, api.reopened)
}

func TestIssueStoreWriteSurvivesCloseLookupFailure(t *testing.T) {
	api := newFakeIssueAPI()
	api.listErr = errors.New("rate limited")
	store := NewIssueStore(api, "acme/todos")

	require.NoError(t, store.Write(context.Background(), "2026-08-31", "body\n"),
		"today's document is written even when the previous issue cannot be listed")
	assert.Equal(t, []string{"Todos for 2026-08-31"}, api.created)
}

func TestIssueStoreWritePropagatesLookupFailure(t *testing.T) {
	api := newFakeIssueAPI()
	api.findErr = errors.New("rate limited")
	store := NewIssueStore(api, "acme/todos")

	err := store.Write(context.Background(), "2026-08-31", "body\n")
	assert.ErrorContains(t, err, "rate limited")
	assert.Empty(t, api.created)
}

func TestTitleDate(t *testing.T) {
	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"Todos for 2026-08-31", "2026-08-31", true},
		{"Caseproof Todos for 2025-01-02", "2025-01-02", true},
		{"Todos for tomorrow", "", false},
		{"2026-08-31 in front", "", false},
	}
	for _, tt := range tests {
		got, ok := titleDate(tt.title)
		assert.Equal(t, tt.ok, ok, tt.title)
		assert.Equal(t, tt.want, got, tt.title)
	}
}
