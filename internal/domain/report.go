package domain

import "time"

// RunState is a stage of a migration run.
type RunState string

const (
	StateValidating RunState = "validating"
	StateQuerying   RunState = "querying"
	StateIterating  RunState = "iterating"
	StateDone       RunState = "done"
	StateAborted    RunState = "aborted"
)

// Terminal reports whether no further transition can happen.
func (s RunState) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// MigrationReport aggregates one run. It is streamed to a ProgressSink while
// the run proceeds and handed back to the caller at the end.
type MigrationReport struct {
	RunID           string            `json:"run_id"`
	Request         MigrationRequest  `json:"request"`
	State           RunState          `json:"state"`
	TotalCandidates int               `json:"total_candidates"`
	Retrieved       int               `json:"retrieved"`
	Outcomes        []MutationOutcome `json:"outcomes"`
	Error           string            `json:"error,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at,omitempty"`
}

// Counts returns the number of updated, skipped and failed outcomes.
func (r *MigrationReport) Counts() (updated, skipped, failed int) {
	for _, o := range r.Outcomes {
		switch o.Kind {
		case OutcomeUpdated:
			updated++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return updated, skipped, failed
}

// Truncated reports whether the backend matched more nodes than were
// retrieved.
func (r *MigrationReport) Truncated() bool {
	return r.TotalCandidates > r.Retrieved
}

// FailedPaths lists the paths of failed outcomes in iteration order.
func (r *MigrationReport) FailedPaths() []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Kind == OutcomeFailed {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// RunRecord is the journal summary of a finished run.
type RunRecord struct {
	RunID           string           `json:"run_id"`
	Request         MigrationRequest `json:"request"`
	State           RunState         `json:"state"`
	TotalCandidates int              `json:"total_candidates"`
	Updated         int              `json:"updated"`
	Skipped         int              `json:"skipped"`
	Failed          int              `json:"failed"`
	Error           string           `json:"error,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      time.Time        `json:"finished_at"`
}

// Record summarizes the report for the run journal.
func (r *MigrationReport) Record() RunRecord {
	updated, skipped, failed := r.Counts()
	return RunRecord{
		RunID:           r.RunID,
		Request:         r.Request,
		State:           r.State,
		TotalCandidates: r.TotalCandidates,
		Updated:         updated,
		Skipped:         skipped,
		Failed:          failed,
		Error:           r.Error,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
	}
}
