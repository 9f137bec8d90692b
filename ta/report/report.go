// Package report renders a computed schedule for a human reader: a
// colorized one-line verdict plus a detail table, and the flat
// "<time>: <action>" lines the CLI writes to its output file (spec.md
// §6). [EXPANSION]
//
// Grounded on the teacher's datalog/annotations/output.go
// (OutputFormatter.colorize, gated behind a useColor flag) and
// datalog/executor/table_formatter.go (TableFormatter's
// tablewriter.NewTable/renderer.NewMarkdown()/Header/Append/Render
// sequence).
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/tasched/ta/solver"
)

// Reporter renders a schedule. UseColor mirrors OutputFormatter.useColor:
// colorize is a no-op whenever it is false, so output redirected to a
// file or a non-tty stays plain.
type Reporter struct {
	UseColor bool
}

// NewReporter creates a Reporter with the given color setting.
func NewReporter(useColor bool) *Reporter {
	return &Reporter{UseColor: useColor}
}

func (r *Reporter) colorize(text string, attrs ...color.Attribute) string {
	if !r.UseColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

// FormatVerdict renders the one-line pass/fail summary.
func (r *Reporter) FormatVerdict(found bool, actionCount int) string {
	if found {
		return r.colorize(fmt.Sprintf("schedule found (%d actions)", actionCount), color.FgGreen)
	}
	return r.colorize("no schedule satisfies the constraints", color.FgRed)
}

// FormatTable renders entries as a "time | action | duration" table,
// where a row's duration is the gap until the next action starts (blank
// on the last row, since there is no successor to measure against).
func (r *Reporter) FormatTable(entries []solver.ScheduleEntry) string {
	if len(entries) == 0 {
		return "_no schedule_\n"
	}

	var b strings.Builder
	alignment := []tw.Align{tw.AlignNone, tw.AlignNone, tw.AlignNone}
	table := tablewriter.NewTable(&b,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"time", "action", "duration"})
	for i, e := range entries {
		duration := ""
		if i+1 < len(entries) {
			duration = fmt.Sprintf("%d", entries[i+1].Time-e.Time)
		}
		table.Append([]string{fmt.Sprintf("%d", e.Time), e.Action, duration})
	}
	table.Render()
	return b.String()
}

// FormatLines renders entries as the flat "<time>: <action>" lines the
// CLI writes to its output file.
func FormatLines(entries []solver.ScheduleEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%d: %s\n", e.Time, e.Action)
	}
	return b.String()
}
