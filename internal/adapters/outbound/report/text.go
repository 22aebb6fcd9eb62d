// Package report renders the progress of a run for humans and machines.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/abdidvp/contentmod/internal/domain"
)

const (
	banner    = "========================="
	separator = "++++++++++"
)

// TextSink writes the line-oriented run narrative. Each block is flushed as
// soon as it is written when the writer supports it.
type TextSink struct {
	w   io.Writer
	err error
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Err returns the first write error, if any.
func (s *TextSink) Err() error { return s.err }

func (s *TextSink) Started(req domain.MigrationRequest) {
	s.lines(
		banner,
		"Content Modification",
		"base path: "+req.BasePath,
		"property name: "+req.PropertyName,
		"original value "+req.OriginalValue,
		"target value: "+req.TargetValue,
		banner,
	)
}

func (s *TextSink) Aborted(err error) {
	var verr *domain.ValidationError
	var qerr *domain.QueryBackendError
	switch {
	case errors.As(err, &verr):
		s.lines("Missing Parameters Error!", verr.Error())
	case errors.As(err, &qerr):
		s.lines("Query Error!", qerr.Error())
	default:
		s.lines("Run Aborted!", err.Error())
	}
}

func (s *TextSink) Matched(total, retrieved int) {
	lines := []string{fmt.Sprintf("Total number of nodes found: %d", total)}
	if retrieved < total {
		lines = append(lines, fmt.Sprintf("Only the first %d nodes will be processed", retrieved))
	}
	s.lines(append(lines, "+Start Updating+")...)
}

func (s *TextSink) Outcome(o domain.MutationOutcome) {
	switch o.Kind {
	case domain.OutcomeUpdated:
		s.lines(
			"Node found: "+o.Path,
			"Original Value: "+o.OldValue,
			"New value is : "+o.NewValue,
			separator,
		)
	case domain.OutcomeSkipped:
		s.lines("Node skipped: "+o.Path, "Reason: "+o.Detail, separator)
	case domain.OutcomeFailed:
		s.lines("Node failed: "+o.Path, "Error: "+o.Detail, separator)
	}
}

func (s *TextSink) Finished(r *domain.MigrationReport) {
	updated, skipped, failed := r.Counts()
	s.lines(
		banner,
		fmt.Sprintf("Updated: %d, Skipped: %d, Failed: %d", updated, skipped, failed),
	)
}

func (s *TextSink) lines(lines ...string) {
	if s.err != nil {
		return
	}
	for _, l := range lines {
		if _, err := io.WriteString(s.w, l+"\n"); err != nil {
			s.err = err
			return
		}
	}
	flush(s.w)
}

// flush covers http.Flusher and bufio.Writer.
func flush(w io.Writer) {
	switch f := w.(type) {
	case interface{ Flush() }:
		f.Flush()
	case interface{ Flush() error }:
		_ = f.Flush()
	}
}
