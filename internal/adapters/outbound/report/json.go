package report

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/abdidvp/contentmod/internal/domain"
)

// Event is one line of the NDJSON stream.
type Event struct {
	Event     string                   `json:"event"`
	Request   *domain.MigrationRequest `json:"request,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Missing   []string                 `json:"missing,omitempty"`
	Total     *int                     `json:"total,omitempty"`
	Retrieved *int                     `json:"retrieved,omitempty"`
	Outcome   *domain.MutationOutcome  `json:"outcome,omitempty"`
	Summary   *domain.RunRecord        `json:"summary,omitempty"`
}

// JSONSink writes newline-delimited JSON events.
type JSONSink struct {
	w   io.Writer
	enc *json.Encoder
	err error
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w, enc: json.NewEncoder(w)}
}

// Err returns the first write error, if any.
func (s *JSONSink) Err() error { return s.err }

func (s *JSONSink) Started(req domain.MigrationRequest) {
	s.emit(Event{Event: "started", Request: &req})
}

func (s *JSONSink) Aborted(err error) {
	ev := Event{Event: "aborted", Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		ev.Missing = verr.Fields
	}
	s.emit(ev)
}

func (s *JSONSink) Matched(total, retrieved int) {
	s.emit(Event{Event: "matched", Total: &total, Retrieved: &retrieved})
}

func (s *JSONSink) Outcome(o domain.MutationOutcome) {
	s.emit(Event{Event: "outcome", Outcome: &o})
}

func (s *JSONSink) Finished(r *domain.MigrationReport) {
	rec := r.Record()
	s.emit(Event{Event: "finished", Summary: &rec})
}

func (s *JSONSink) emit(ev Event) {
	if s.err != nil {
		return
	}
	if err := s.enc.Encode(ev); err != nil {
		s.err = err
		return
	}
	flush(s.w)
}
