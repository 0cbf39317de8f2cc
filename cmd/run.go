package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caseproof/summarize/internal/checklist"
	"github.com/caseproof/summarize/internal/config"
	"github.com/caseproof/summarize/internal/github"
	"github.com/caseproof/summarize/internal/logging"
	"github.com/caseproof/summarize/internal/storage"
	"github.com/caseproof/summarize/pkg/models"
)

// workItemSource is the slice of the GitHub client the workflow needs.
type workItemSource interface {
	FetchWorkItems(ctx context.Context, organizations []string) ([]models.WorkItem, []*github.QueryError)
}

// runSummarize wires configuration, store and client together and
// hands off to the daily workflow.
func runSummarize(cmd *cobra.Command, args []string) error {
	show, err := cmd.Flags().GetBool("show")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("configuration error: unknown timezone %q: %w", cfg.Timezone, err)
	}
	today, _ := checklist.DayKeys(time.Now().In(location))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Issue mode talks to the API for every operation, so the client
	// is built up front. File mode only needs one for consolidation.
	var client *github.Client
	var store storage.Store
	if cfg.Storage.Mode == config.StorageModeIssue {
		client, err = github.NewClient(cfg)
		if err != nil {
			return err
		}
		store = storage.NewIssueStore(client, cfg.Storage.Repository)
	} else {
		store = storage.NewFileStore(cfg.Storage.Directory)
	}

	if show {
		return showChecklist(ctx, store, today)
	}

	newSource := func() (workItemSource, error) {
		if client != nil {
			return client, nil
		}
		client, err = github.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	return executeDaily(ctx, store, newSource, cfg.Organizations, today, force, dryRun)
}

// executeDaily is the daily workflow: decide what today's run should
// do, then either display the stored checklist or consolidate a fresh
// one from the most recent prior document and today's work items.
func executeDaily(ctx context.Context, store storage.Store, newSource func() (workItemSource, error), organizations []string, today string, force, dryRun bool) error {
	content, exists, err := store.Read(ctx, today)
	if err != nil {
		return err
	}

	plan := checklist.PlanRun(exists, force, dryRun)
	if plan.UseExisting {
		logging.Info("checklist already exists for today, reproducing it", "date", today)
		printNotice("Today's checklist already exists (use --force to regenerate).")
		printDocument(content)
		return nil
	}

	source, err := newSource()
	if err != nil {
		return err
	}

	items, failures := source.FetchWorkItems(ctx, organizations)
	skipped := skippedOrganizations(failures)

	previous := readPriorDocument(ctx, store, today)
	doc := checklist.Consolidate(today, previous, items, skipped)
	rendered := checklist.Render(doc)

	if !plan.Write {
		printTitle(doc.Title() + " (dry run)")
		printDocument(rendered)
		return nil
	}

	if err := store.Write(ctx, today, rendered); err != nil {
		return fmt.Errorf("persistence error: %w", err)
	}

	printSuccess(fmt.Sprintf("Checklist written: %s (%d items)", store.Location(today), doc.Len()))
	for _, org := range skipped {
		printNotice(fmt.Sprintf("Skipped %s due to a query failure; its items are missing today.", org))
	}
	return nil
}

// showChecklist displays today's stored document, or reports absence,
// without contacting the work-item queries or writing anything.
func showChecklist(ctx context.Context, store storage.Store, today string) error {
	content, ok, err := store.Read(ctx, today)
	if err != nil {
		return err
	}
	if !ok {
		printNotice(fmt.Sprintf("No checklist exists for %s.", today))
		return nil
	}
	printDocument(content)
	return nil
}

// readPriorDocument parses the most recent document older than today,
// so carryover survives weekends and other days without a run.
// Carryover is an optimization, not a correctness requirement: a
// missing or malformed document degrades to no carryover with a
// warning.
func readPriorDocument(ctx context.Context, store storage.Store, today string) *checklist.Document {
	content, ok, err := store.ReadLatestBefore(ctx, today)
	if err != nil {
		logging.Warn("unable to read previous checklist, continuing without carryover",
			"before", today, "error", err)
		return nil
	}
	if !ok {
		logging.Debug("no previous checklist", "before", today)
		return nil
	}

	doc, err := checklist.Parse(content)
	if err != nil {
		if errors.Is(err, checklist.ErrMalformedInput) {
			logging.Warn("previous checklist is not decodable, continuing without carryover", "before", today)
			return nil
		}
		logging.Warn("unable to parse previous checklist, continuing without carryover",
			"before", today, "error", err)
		return nil
	}
	return doc
}

// skippedOrganizations collapses query failures to a unique,
// first-seen-ordered organization list for the document's summary line.
func skippedOrganizations(failures []*github.QueryError) []string {
	var skipped []string
	seen := make(map[string]bool)
	for _, failure := range failures {
		if seen[failure.Organization] {
			continue
		}
		seen[failure.Organization] = true
		skipped = append(skipped, failure.Organization)
	}
	return skipped
}
