package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/MoreDelay/cbz-in/internal/domain"
)

var (
	summaryTitle = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skipStyle    = lipgloss.NewStyle().Faint(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// printSummary writes the end-of-run rollup: per-status totals, image totals
// and one line per skipped or failed job.
func printSummary(w io.Writer, report domain.BatchReport) {
	if len(report.Archives) == 0 {
		return
	}

	converted, skipped, failed := report.Totals()
	fmt.Fprintln(w, summaryTitle.Render("Summary"))
	fmt.Fprintf(w, "  %s, %s, %s\n",
		okStyle.Render(fmt.Sprintf("%d converted", converted)),
		skipStyle.Render(fmt.Sprintf("%d skipped", skipped)),
		failStyle.Render(fmt.Sprintf("%d failed", failed)))

	ec, ep, ef := report.EntryTotals()
	if ec+ep+ef > 0 {
		fmt.Fprintf(w, "  images: %d converted, %d passthrough, %d failed\n", ec, ep, ef)
	}

	for _, a := range report.Archives {
		switch a.Status {
		case domain.ArchiveSkipped:
			fmt.Fprintf(w, "  %s %s: %s\n", skipStyle.Render("-"), a.Path, a.Reason)
		case domain.ArchiveFailed:
			fmt.Fprintf(w, "  %s %s: %v\n", failStyle.Render("x"), a.Path, a.Err)
		}
	}
}
