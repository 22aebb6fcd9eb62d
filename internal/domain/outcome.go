package domain

// OutcomeKind discriminates a MutationOutcome.
type OutcomeKind string

const (
	OutcomeUpdated OutcomeKind = "updated"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// MutationOutcome is the result of processing one candidate node.
type MutationOutcome struct {
	Kind     OutcomeKind `json:"kind"`
	Path     string      `json:"path"`
	OldValue string      `json:"old_value"`
	NewValue string      `json:"new_value"`
	Detail   string      `json:"detail,omitempty"`
	Err      error       `json:"-"`
}

// Updated records a committed rewrite.
func Updated(path, oldValue, newValue string) MutationOutcome {
	return MutationOutcome{Kind: OutcomeUpdated, Path: path, OldValue: oldValue, NewValue: newValue}
}

// Skipped records a candidate whose value did not contain the substring.
func Skipped(path, detail string) MutationOutcome {
	return MutationOutcome{Kind: OutcomeSkipped, Path: path, Detail: detail}
}

// Failed records a node-level failure. The error is kept for errors.As.
func Failed(path string, err error) MutationOutcome {
	return MutationOutcome{Kind: OutcomeFailed, Path: path, Detail: err.Error(), Err: err}
}
