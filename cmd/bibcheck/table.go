package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/bibcheck/internal/report"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if stdoutIsTerminal() {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printSummary prints status counts, issue counts by type, file-level
// issues and the citekeys with status ERROR.
func printSummary(w io.Writer, r report.Report) {
	s := r.Stats
	fmt.Fprintln(w, renderTable(
		[]string{"Status", "Entries"},
		[][]string{
			{"OK", strconv.Itoa(s.OK)},
			{"WARNING", strconv.Itoa(s.Warning)},
			{"ERROR", strconv.Itoa(s.Error)},
			{"Total", strconv.Itoa(s.Total)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	if len(s.ByIssueType) > 0 {
		rows := make([][]string, 0, len(s.ByIssueType))
		for t, n := range s.ByIssueType {
			rows = append(rows, []string{string(t), strconv.Itoa(n)})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
		fmt.Fprintln(w, renderTable([]string{"Issue", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	}

	if len(r.FileIssues) > 0 {
		fmt.Fprintf(w, "File issues: %d\n", len(r.FileIssues))
		for _, iss := range r.FileIssues {
			fmt.Fprintf(w, "  %s: %s\n", iss.Type, iss.Message)
		}
	}
	if keys := r.ErrorKeys(); len(keys) > 0 {
		fmt.Fprintf(w, "ERROR citekeys: %s\n", strings.Join(keys, ", "))
	}
}
