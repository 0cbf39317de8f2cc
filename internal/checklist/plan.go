package checklist

// Plan describes what a run should do given the command flags and
// whether a document already exists for today.
type Plan struct {
	// Consolidate means the run fetches work items and recomputes
	// today's document from yesterday's carryover.
	Consolidate bool

	// Write means the rendered document is persisted.
	Write bool

	// UseExisting means today's stored document is authoritative and
	// is displayed untouched, with no source query and no write.
	UseExisting bool
}

// PlanRun decides the write behavior. Dry-run always recomputes and
// never writes, even combined with force. Without force, an existing
// document for today makes the run a no-op that reproduces the stored
// content, so repeated same-day runs cause no API traffic and no
// churn. Force recomputes from yesterday and overwrites
// unconditionally.
func PlanRun(existingToday, force, dryRun bool) Plan {
	switch {
	case dryRun:
		return Plan{Consolidate: true}
	case !existingToday:
		return Plan{Consolidate: true, Write: true}
	case force:
		return Plan{Consolidate: true, Write: true}
	default:
		return Plan{UseExisting: true}
	}
}
