package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdidvp/contentmod/internal/domain"
)

// MigrationRunner orchestrates a run:
// validate -> lock -> query once -> mutate each candidate in order -> report.
type MigrationRunner struct {
	query   *ContentQuery
	mutator *PropertyMutator
	locker  domain.RunLocker
	journal domain.RunJournal
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewMigrationRunner wires a runner. locker and journal are optional.
func NewMigrationRunner(
	query *ContentQuery,
	mutator *PropertyMutator,
	locker domain.RunLocker,
	journal domain.RunJournal,
	logger *zap.Logger,
) *MigrationRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MigrationRunner{
		query:   query,
		mutator: mutator,
		locker:  locker,
		journal: journal,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Run executes req and streams progress to sink. The report is always
// returned; the error is non-nil only when the run was aborted.
func (r *MigrationRunner) Run(ctx context.Context, req domain.MigrationRequest, sink domain.ProgressSink) (*domain.MigrationReport, error) {
	sink = orDiscard(sink)
	report := r.begin(req, sink)

	if err := req.Validate(); err != nil {
		return r.abort(report, sink, err)
	}
	report.Request = req.Normalized()

	return r.execute(ctx, report, sink)
}

// RunParams parses transport parameters as part of validation, so an
// absent target is reported the same way as any other missing parameter.
func (r *MigrationRunner) RunParams(ctx context.Context, lookup func(string) (string, bool), sink domain.ProgressSink) (*domain.MigrationReport, error) {
	sink = orDiscard(sink)
	req, err := domain.ParseRequest(lookup)
	report := r.begin(req, sink)
	if err != nil {
		return r.abort(report, sink, err)
	}
	return r.execute(ctx, report, sink)
}

func (r *MigrationRunner) begin(req domain.MigrationRequest, sink domain.ProgressSink) *domain.MigrationReport {
	report := &domain.MigrationReport{
		RunID:     r.newID(),
		Request:   req,
		State:     domain.StateValidating,
		StartedAt: r.now(),
	}
	sink.Started(req)
	return report
}

func (r *MigrationRunner) execute(ctx context.Context, report *domain.MigrationReport, sink domain.ProgressSink) (*domain.MigrationReport, error) {
	req := report.Request
	log := r.logger.With(zap.String("run_id", report.RunID))

	r.transition(log, report, domain.StateQuerying)

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx)
		if err != nil {
			return r.finish(log, report, sink, err)
		}
		defer func() {
			if err := unlock(); err != nil {
				log.Warn("releasing run lock", zap.Error(err))
			}
		}()
	}

	candidates, total, err := r.query.Search(ctx, req.BasePath, req.PropertyName, req.OriginalValue)
	if err != nil {
		return r.finish(log, report, sink, err)
	}

	report.TotalCandidates = total
	report.Retrieved = len(candidates)
	report.Outcomes = make([]domain.MutationOutcome, 0, len(candidates))
	sink.Matched(total, len(candidates))
	log.Info("candidates found",
		zap.String("base_path", req.BasePath),
		zap.String("property", req.PropertyName),
		zap.Int("total", total),
		zap.Int("retrieved", len(candidates)))
	if report.Truncated() {
		log.Warn("candidate set truncated",
			zap.Error(domain.ErrScaleLimitExceeded),
			zap.Int("total", total),
			zap.Int("retrieved", len(candidates)))
	}

	r.transition(log, report, domain.StateIterating)

	for i, node := range candidates {
		if err := ctx.Err(); err != nil {
			return r.finish(log, report, sink,
				fmt.Errorf("run cancelled after %d of %d candidates: %w", i, len(candidates), err))
		}
		outcome := r.mutator.Apply(ctx, node, req)
		report.Outcomes = append(report.Outcomes, outcome)
		sink.Outcome(outcome)
	}

	return r.finish(log, report, sink, nil)
}

// finish moves the report to its terminal state, journals it and notifies
// the sink.
func (r *MigrationRunner) finish(log *zap.Logger, report *domain.MigrationReport, sink domain.ProgressSink, runErr error) (*domain.MigrationReport, error) {
	report.FinishedAt = r.now()
	if runErr != nil {
		report.State = domain.StateAborted
		report.Error = runErr.Error()
		log.Error("run aborted", zap.Error(runErr))
		sink.Aborted(runErr)
	} else {
		r.transition(log, report, domain.StateDone)
		updated, skipped, failed := report.Counts()
		log.Info("run finished",
			zap.Int("updated", updated),
			zap.Int("skipped", skipped),
			zap.Int("failed", failed),
			zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))
		sink.Finished(report)
	}

	if r.journal != nil {
		if err := r.journal.Record(report.Record()); err != nil {
			log.Warn("recording run in journal", zap.Error(err))
		}
	}

	return report, runErr
}

// abort ends a run that never got past validation. Nothing is locked,
// queried or journaled.
func (r *MigrationRunner) abort(report *domain.MigrationReport, sink domain.ProgressSink, err error) (*domain.MigrationReport, error) {
	report.State = domain.StateAborted
	report.Error = err.Error()
	report.FinishedAt = r.now()

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		r.logger.Info("request rejected", zap.Strings("missing", verr.Fields))
	}
	sink.Aborted(err)
	return report, err
}

func (r *MigrationRunner) transition(log *zap.Logger, report *domain.MigrationReport, to domain.RunState) {
	log.Debug("state transition",
		zap.String("from", string(report.State)),
		zap.String("to", string(to)))
	report.State = to
}

type discardSink struct{}

func (discardSink) Started(domain.MigrationRequest) {}
func (discardSink) Aborted(error) {}
func (discardSink) Matched(int, int) {}
func (discardSink) Outcome(domain.MutationOutcome) {}
func (discardSink) Finished(*domain.MigrationReport) {}

func orDiscard(sink domain.ProgressSink) domain.ProgressSink {
	if sink == nil {
		return discardSink{}
	}
	return sink
}
