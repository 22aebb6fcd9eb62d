package tui_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/tui"
	"github.com/abdidvp/contentmod/internal/domain"
)

func sampleReport() *domain.MigrationReport {
	return &domain.MigrationReport{
		RunID: "run-42",
		Request: domain.MigrationRequest{
			BasePath: "/content/site", PropertyName: "title", OriginalValue: "foo", TargetValue: "bar",
		},
		State:           domain.StateDone,
		TotalCandidates: 5,
		Retrieved:       3,
		Outcomes: []domain.MutationOutcome{
			domain.Updated("/content/site/a", "foo", "bar"),
			domain.Skipped("/content/site/b", "no match"),
			domain.Failed("/content/site/c", fmt.Errorf("commit /content/site/c: locked")),
		},
	}
}

func TestRenderSummary_ContainsCounts(t *testing.T) {
	out := tui.RenderSummary(sampleReport())
	assert.Contains(t, out, "1 updated")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "DONE")
	assert.Contains(t, out, "run-42")
}

func TestRenderSummary_ListsFailedPaths(t *testing.T) {
	out := tui.RenderSummary(sampleReport())
	assert.Contains(t, out, "Failed nodes")
	assert.Contains(t, out, "/content/site/c")
	assert.NotContains(t, out, "/content/site/b")
}

func TestRenderSummary_Truncation(t *testing.T) {
	out := tui.RenderSummary(sampleReport())
	assert.Contains(t, out, "5 candidates matched, only 3 were processed")
}

func TestRenderSummary_CapsFailedList(t *testing.T) {
	r := sampleReport()
	r.Outcomes = nil
	for i := 0; i < 25; i++ {
		r.Outcomes = append(r.Outcomes, domain.Failed(fmt.Sprintf("/n%d", i), fmt.Errorf("boom")))
	}
	out := tui.RenderSummary(r)
	assert.Contains(t, out, "... and 5 more")
	assert.NotContains(t, out, "/n24")
}

func TestRenderSummary_Aborted(t *testing.T) {
	r := &domain.MigrationReport{State: domain.StateAborted, Error: "query under /c failed: down"}
	out := tui.RenderSummary(r)
	assert.Contains(t, out, "ABORTED")
	assert.Contains(t, out, "query under /c failed: down")
}

func TestRenderHistory(t *testing.T) {
	records := []domain.RunRecord{
		{RunID: "1", State: domain.StateDone, Updated: 2, StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Request: domain.MigrationRequest{BasePath: "/a", PropertyName: "title", OriginalValue: "x", TargetValue: "y"}},
		{RunID: "2", State: domain.StateAborted, Error: "lock held", StartedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			Request: domain.MigrationRequest{BasePath: "/b", PropertyName: "title", OriginalValue: "x", TargetValue: "y"}},
	}
	out := tui.RenderHistory(records)
	assert.Contains(t, out, "Run history (2)")
	assert.Contains(t, out, "lock held")
	assert.Contains(t, out, "2 updated")
	assert.Less(t, strings.Index(out, "2026-01-02"), strings.Index(out, "2026-01-01"), "most recent first")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No runs recorded yet.")
}
