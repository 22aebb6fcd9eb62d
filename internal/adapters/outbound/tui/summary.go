package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/contentmod/internal/domain"
)

// maxListedFailures caps the failed paths printed under the summary box.
const maxListedFailures = 20

// RenderSummary renders the end-of-run box: counts, truncation and the
// paths that failed.
func RenderSummary(report *domain.MigrationReport) string {
	var b strings.Builder

	updated, skipped, failed := report.Counts()

	title := headerStyle.Render("contentmod")
	subtitle := dimStyle.Render(fmt.Sprintf("%s  %s", report.Request.PropertyName, report.Request.BasePath))
	status := stateStyle(report).Render(strings.ToUpper(string(report.State)))

	counts := fmt.Sprintf("%s  %s  %s",
		passStyle.Render(fmt.Sprintf("%d updated", updated)),
		skipStyle.Render(fmt.Sprintf("%d skipped", skipped)),
		failStyle.Render(fmt.Sprintf("%d failed", failed)),
	)

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + status + "\n" + counts))
	b.WriteString("\n")

	if report.Truncated() {
		b.WriteString("\n  " + warnStyle.Render(fmt.Sprintf(
			"%d candidates matched, only %d were processed", report.TotalCandidates, report.Retrieved)))
		b.WriteString("\n")
	}

	if report.Error != "" {
		b.WriteString("\n  " + failStyle.Render("Error: ") + report.Error + "\n")
	}

	paths := report.FailedPaths()
	if len(paths) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s %s\n",
			sectionStyle.Render("Failed nodes"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(paths)))))
		for i, p := range paths {
			if i == maxListedFailures {
				b.WriteString("    " + dimStyle.Render(fmt.Sprintf("... and %d more", len(paths)-i)) + "\n")
				break
			}
			b.WriteString(fmt.Sprintf("    %s %s\n", failStyle.Render("●"), p))
		}
	}

	b.WriteString("  " + separatorLine + "\n")
	b.WriteString("  " + dimStyle.Render("run "+report.RunID) + "\n")
	return b.String()
}

// RenderHistory renders journal records, most recent first.
func RenderHistory(records []domain.RunRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("No runs recorded yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Run history (%d)", len(records))) + "\n")
	b.WriteString(separatorLine + "\n")
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		state := passStyle.Render(string(r.State))
		if r.State == domain.StateAborted {
			state = failStyle.Render(string(r.State))
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s %s  %q -> %q\n",
			dimStyle.Render(r.StartedAt.Format("2006-01-02 15:04:05")),
			state,
			r.Request.PropertyName,
			r.Request.BasePath,
			r.Request.OriginalValue,
			r.Request.TargetValue))
		b.WriteString(fmt.Sprintf("    %s\n", dimStyle.Render(fmt.Sprintf(
			"%d candidates, %d updated, %d skipped, %d failed", r.TotalCandidates, r.Updated, r.Skipped, r.Failed))))
		if r.Error != "" {
			b.WriteString("    " + failStyle.Render(r.Error) + "\n")
		}
	}
	return b.String()
}

func stateStyle(report *domain.MigrationReport) lipgloss.Style {
	_, _, failed := report.Counts()
	switch {
	case report.State == domain.StateAborted:
		return failStyle.Bold(true)
	case failed > 0:
		return warnStyle.Bold(true)
	default:
		return passStyle.Bold(true)
	}
}
