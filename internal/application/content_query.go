package application

import (
	"context"

	"github.com/abdidvp/contentmod/internal/domain"
)

// ContentQuery finds candidate nodes for a run with a single prefix search.
// Containment at arbitrary offsets is re-checked by PropertyMutator.
type ContentQuery struct {
	backend    domain.QueryBackend
	maxResults int
}

// NewContentQuery creates a ContentQuery. maxResults <= 0 falls back to
// domain.DefaultMaxResults.
func NewContentQuery(backend domain.QueryBackend, maxResults int) *ContentQuery {
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}
	return &ContentQuery{backend: backend, maxResults: maxResults}
}

// Search returns up to maxResults candidates and the backend's total match
// count. Any backend failure is returned as a *domain.QueryBackendError.
func (q *ContentQuery) Search(ctx context.Context, basePath, propertyName, originalValue string) ([]domain.Node, int, error) {
	result, err := q.backend.Search(ctx, domain.SearchQuery{
		PathPrefix:   basePath,
		PropertyName: propertyName,
		ValuePattern: originalValue + "*",
		MaxResults:   q.maxResults,
	})
	if err != nil {
		return nil, 0, &domain.QueryBackendError{BasePath: basePath, Cause: err}
	}
	if result == nil {
		return nil, 0, nil
	}
	return result.Nodes, result.TotalMatches, nil
}
