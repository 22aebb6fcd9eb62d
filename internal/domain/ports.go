package domain

import "context"

// Node is a handle on one repository node, valid for a single run.
type Node interface {
	Path() string
	// Property returns the string value of name, or ErrPropertyNotFound /
	// ErrPropertyNotString.
	Property(name string) (string, error)
	// SetProperty stages a new value; nothing is persisted until Commit.
	SetProperty(name, value string) error
	// Commit persists the staged change of this node only.
	Commit(ctx context.Context) error
}

// SearchQuery selects candidate nodes: every node at or below PathPrefix
// whose PropertyName value matches ValuePattern. A trailing "*" in
// ValuePattern is a prefix wildcard; no other character is special.
type SearchQuery struct {
	PathPrefix   string
	PropertyName string
	ValuePattern string
	MaxResults   int
}

// Prefix returns ValuePattern without its trailing wildcard.
func (q SearchQuery) Prefix() string {
	if n := len(q.ValuePattern); n > 0 && q.ValuePattern[n-1] == '*' {
		return q.ValuePattern[:n-1]
	}
	return q.ValuePattern
}

// SearchResult is one page of candidates. TotalMatches counts every match,
// including those cut off by MaxResults.
type SearchResult struct {
	Nodes        []Node
	TotalMatches int
}

// QueryBackend searches a content repository.
type QueryBackend interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

// ProgressSink receives the run narrative as it happens.
type ProgressSink interface {
	Started(req MigrationRequest)
	Aborted(err error)
	Matched(total, retrieved int)
	Outcome(o MutationOutcome)
	Finished(report *MigrationReport)
}

// RunLocker guarantees at most one run per repository.
type RunLocker interface {
	// Lock returns ErrRunInProgress when another run holds the lock.
	Lock(ctx context.Context) (unlock func() error, err error)
}

// RunJournal keeps summaries of past runs.
type RunJournal interface {
	Record(rec RunRecord) error
	Load() ([]RunRecord, error)
}

// ConfigLoader loads the tool configuration from a working directory.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}
