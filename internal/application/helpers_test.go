package application_test

import (
	"context"
	"errors"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/memrepo"
	"github.com/abdidvp/contentmod/internal/domain"
)

var errBackendDown = errors.New("connection refused")

// faultyBackend wraps a memrepo and injects search and per-node failures.
type faultyBackend struct {
	inner      *memrepo.Repository
	searchErr  error
	commitErrs map[string]error
	readErrs   map[string]error
	setErrs    map[string]error
	searches   int
	lastQuery  domain.SearchQuery
}

func newFaultyBackend(repo *memrepo.Repository) *faultyBackend {
	return &faultyBackend{
		inner:      repo,
		commitErrs: map[string]error{},
		readErrs:   map[string]error{},
		setErrs:    map[string]error{},
	}
}

func (b *faultyBackend) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	b.searches++
	b.lastQuery = q
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	res, err := b.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	for i, n := range res.Nodes {
		res.Nodes[i] = &faultyNode{
			Node:      n,
			commitErr: b.commitErrs[n.Path()],
			readErr:   b.readErrs[n.Path()],
			setErr:    b.setErrs[n.Path()],
		}
	}
	return res, nil
}

type faultyNode struct {
	domain.Node
	commitErr error
	readErr   error
	setErr    error
}

func (n *faultyNode) Property(name string) (string, error) {
	if n.readErr != nil {
		return "", n.readErr
	}
	return n.Node.Property(name)
}

func (n *faultyNode) SetProperty(name, value string) error {
	if n.setErr != nil {
		return n.setErr
	}
	return n.Node.SetProperty(name, value)
}

func (n *faultyNode) Commit(ctx context.Context) error {
	if n.commitErr != nil {
		return n.commitErr
	}
	return n.Node.Commit(ctx)
}

// recordingSink keeps every event in order.
type recordingSink struct {
	started  []domain.MigrationRequest
	aborted  []error
	matched  [][2]int
	outcomes []domain.MutationOutcome
	finished []*domain.MigrationReport
}

func (s *recordingSink) Started(req domain.MigrationRequest) { s.started = append(s.started, req) }
func (s *recordingSink) Aborted(err error)                   { s.aborted = append(s.aborted, err) }
func (s *recordingSink) Matched(total, retrieved int) {
	s.matched = append(s.matched, [2]int{total, retrieved})
}
func (s *recordingSink) Outcome(o domain.MutationOutcome) { s.outcomes = append(s.outcomes, o) }
func (s *recordingSink) Finished(r *domain.MigrationReport) {
	s.finished = append(s.finished, r)
}

type memJournal struct {
	records []domain.RunRecord
}

func (j *memJournal) Record(rec domain.RunRecord) error {
	j.records = append(j.records, rec)
	return nil
}

func (j *memJournal) Load() ([]domain.RunRecord, error) { return j.records, nil }

type stubLocker struct {
	err      error
	locked   int
	unlocked int
}

func (l *stubLocker) Lock(context.Context) (func() error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked++
	return func() error {
		l.unlocked++
		return nil
	}, nil
}
