// Package report formats run summaries and history tables for the
// terminal.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/rankhist/internal/history"
)

// Summary aggregates the counters a completed run always reports, gaps and
// all.
type Summary struct {
	FilesSeen     int
	ScoresFound   int
	SkippedFiles  int
	UniqueDates   int
	Scenarios     int
	BatchesTotal  int
	BatchesFailed int
	Elapsed       time.Duration
}

// Print writes the run summary. Failed batches are highlighted because they
// mean the history has gaps.
func (s Summary) Print(w io.Writer) {
	header := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow, color.Bold)

	header.Fprintln(w, "Run summary")

	fmt.Fprintf(w, "  scenarios:      %s\n", humanize.Comma(int64(s.Scenarios)))
	fmt.Fprintf(w, "  files scanned:  %s\n", humanize.Comma(int64(s.FilesSeen)))
	fmt.Fprintf(w, "  scores found:   %s\n", humanize.Comma(int64(s.ScoresFound)))
	fmt.Fprintf(w, "  files skipped:  %s\n", humanize.Comma(int64(s.SkippedFiles)))
	fmt.Fprintf(w, "  unique dates:   %s\n", humanize.Comma(int64(s.UniqueDates)))
	fmt.Fprintf(w, "  batches:        %s\n", humanize.Comma(int64(s.BatchesTotal)))

	if s.BatchesFailed > 0 {
		warn.Fprintf(w, "  batches failed: %d (history has gaps)\n", s.BatchesFailed)
	} else {
		fmt.Fprintf(w, "  batches failed: 0\n")
	}

	fmt.Fprintf(w, "  elapsed:        %s\n", s.Elapsed.Round(time.Millisecond))
}

// HistoryTable renders the assembled history as a plain text table.
func HistoryTable(w io.Writer, points []history.Point) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"Date", "Rank", "Energy", "Progress"})

	for _, point := range points {
		energy := "-"
		if point.Energy != nil {
			energy = fmt.Sprintf("%.1f", *point.Energy)
		}

		tbl.AppendRow(table.Row{
			point.Date,
			point.RankName,
			energy,
			fmt.Sprintf("%.0f%%", point.Progress*percentFactor),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d dates", len(points))})
	tbl.Render()
}

// percentFactor converts a 0-1 progress fraction to percent.
const percentFactor = 100
