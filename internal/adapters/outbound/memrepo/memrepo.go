package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/abdidvp/contentmod/internal/domain"
)

// Repository is an in-memory content repository. Property values are kept as
// given: anything that is not a string reads as domain.ErrPropertyNotString.
type Repository struct {
	mu    sync.RWMutex
	nodes map[string]map[string]any
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{nodes: make(map[string]map[string]any)}
}

// Put creates or replaces a node.
func (r *Repository) Put(path string, props map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]any, len(props))
	for k, v := range props {
		copied[k] = v
	}
	r.nodes[domain.NormalizePath(path)] = copied
}

// Value returns the committed value of a property.
func (r *Repository) Value(path, name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	props, ok := r.nodes[domain.NormalizePath(path)]
	if !ok {
		return nil, false
	}
	v, ok := props[name]
	return v, ok
}

// Search implements domain.QueryBackend. Results are ordered by path.
func (r *Repository) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := domain.NormalizePath(q.PathPrefix)
	if base == "" {
		return nil, fmt.Errorf("empty path prefix")
	}
	prefix := q.Prefix()

	r.mu.RLock()
	var paths []string
	for p, props := range r.nodes {
		if !domain.IsWithin(p, base) {
			continue
		}
		if s, ok := props[q.PropertyName].(string); ok && strings.HasPrefix(s, prefix) {
			paths = append(paths, p)
		}
	}
	r.mu.RUnlock()

	sort.Strings(paths)
	result := &domain.SearchResult{TotalMatches: len(paths)}
	if q.MaxResults > 0 && len(paths) > q.MaxResults {
		paths = paths[:q.MaxResults]
	}
	for _, p := range paths {
		result.Nodes = append(result.Nodes, &node{repo: r, path: p})
	}
	return result, nil
}

type node struct {
	repo   *Repository
	path   string
	staged map[string]string
}

func (n *node) Path() string { return n.path }

func (n *node) Property(name string) (string, error) {
	if v, ok := n.staged[name]; ok {
		return v, nil
	}
	v, ok := n.repo.Value(n.path, name)
	if !ok {
		return "", domain.ErrPropertyNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", domain.ErrPropertyNotString
	}
	return s, nil
}

func (n *node) SetProperty(name, value string) error {
	if n.staged == nil {
		n.staged = make(map[string]string)
	}
	n.staged[name] = value
	return nil
}

func (n *node) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.repo.mu.Lock()
	defer n.repo.mu.Unlock()
	props, ok := n.repo.nodes[n.path]
	if !ok {
		return fmt.Errorf("node %s no longer exists", n.path)
	}
	for k, v := range n.staged {
		props[k] = v
	}
	n.staged = nil
	return nil
}
