package application

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/abdidvp/contentmod/internal/domain"
)

// PropertyMutator verifies, rewrites and commits one candidate node.
type PropertyMutator struct {
	logger *zap.Logger
}

func NewPropertyMutator(logger *zap.Logger) *PropertyMutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyMutator{logger: logger}
}

// Apply never returns an error: every failure becomes a Failed outcome so the
// caller can move on to the next candidate.
func (m *PropertyMutator) Apply(ctx context.Context, node domain.Node, req domain.MigrationRequest) domain.MutationOutcome {
	path := node.Path()

	value, err := node.Property(req.PropertyName)
	if err != nil {
		return m.fail(domain.NewNodeError(domain.StageRead, path, err))
	}

	// The query matched on a prefix; the substring must still be present.
	if !strings.Contains(value, req.OriginalValue) {
		return domain.Skipped(path, "value does not contain the original substring")
	}

	newValue := strings.ReplaceAll(value, req.OriginalValue, req.TargetValue)

	if err := node.SetProperty(req.PropertyName, newValue); err != nil {
		return m.fail(domain.NewNodeError(domain.StageWrite, path, err))
	}
	if err := node.Commit(ctx); err != nil {
		return m.fail(domain.NewNodeError(domain.StageCommit, path, err))
	}

	m.logger.Debug("node updated",
		zap.String("path", path),
		zap.String("property", req.PropertyName))
	return domain.Updated(path, value, newValue)
}

func (m *PropertyMutator) fail(err *domain.NodeError) domain.MutationOutcome {
	m.logger.Warn("error while modifying content",
		zap.String("path", err.Path),
		zap.String("stage", string(err.Stage)),
		zap.Error(err.Cause))
	return domain.Failed(err.Path, err)
}
