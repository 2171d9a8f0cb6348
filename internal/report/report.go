// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report merges static and online findings into per-entry
// statuses, aggregates statistics and writes the report files.
package report

import (
	"github.com/pdiddy/bibcheck/internal/resolve"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// Status is the overall verdict for one entry.
type Status string

const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
)

// FieldsSummary is the subset of entry fields echoed in reports.
type FieldsSummary struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   string `json:"year"`
	DOI    string `json:"doi"`
	URL    string `json:"url"`
	Pages  string `json:"pages"`
	Venue  string `json:"venue"`
}

// EntryReport is the report line for one entry.
type EntryReport struct {
	CiteKey        string              `json:"citekey"`
	EntryType      string              `json:"entry_type"`
	Fields         FieldsSummary       `json:"fields_summary"`
	Status         Status              `json:"status"`
	Issues         []types.Issue       `json:"issues"`
	Online         *resolve.Resolution `json:"online,omitempty"`
	FixPlanPreview []string            `json:"fix_plan_preview"`
}

// Stats counts entries by status and issues by type.
type Stats struct {
	Total       int                     `json:"total"`
	OK          int                     `json:"ok"`
	Warning     int                     `json:"warning"`
	Error       int                     `json:"error"`
	ByIssueType map[types.IssueType]int `json:"by_issue_type"`
}

// Report is the complete result of a run.
type Report struct {
	Entries    []EntryReport `json:"entries"`
	FileIssues []types.Issue `json:"file_issues"`
	Stats      Stats         `json:"stats"`
}

// Builder accumulates entries in input order.
type Builder struct {
	entries    []EntryReport
	fileIssues []types.Issue
}

// AddFileIssue records a problem that belongs to the file rather than to
// an entry, such as a parse failure.
func (b *Builder) AddFileIssue(issue types.Issue) {
	b.fileIssues = append(b.fileIssues, issue)
}

// Collect adds one entry. Static and online issues are merged with
// duplicates (same type and message) dropped. res may be nil when the
// entry was not checked online.
func (b *Builder) Collect(e types.Entry, static []types.Issue, res *resolve.Resolution, preview []string) Status {
	combined := append([]types.Issue(nil), static...)
	if res != nil {
		combined = append(combined, res.Issues...)
	}
	issues := Dedupe(combined)
	status := StatusFor(issues)

	if preview == nil {
		preview = []string{}
	}
	b.entries = append(b.entries, EntryReport{
		CiteKey:   e.ID,
		EntryType: e.Type,
		Fields: FieldsSummary{
			Title:  e.Get("title"),
			Author: e.Get("author"),
			Year:   e.Get("year"),
			DOI:    e.Get("doi"),
			URL:    e.Get("url"),
			Pages:  e.Get("pages"),
			Venue:  e.Venue(),
		},
		Status:         status,
		Issues:         issues,
		Online:         res,
		FixPlanPreview: preview,
	})
	return status
}

// Build computes statistics and returns the report.
func (b *Builder) Build() Report {
	stats := Stats{Total: len(b.entries), ByIssueType: make(map[types.IssueType]int)}
	for _, e := range b.entries {
		switch e.Status {
		case StatusOK:
			stats.OK++
		case StatusWarning:
			stats.Warning++
		default:
			stats.Error++
		}
		for _, i := range e.Issues {
			stats.ByIssueType[i.Type]++
		}
	}
	fileIssues := b.fileIssues
	if fileIssues == nil {
		fileIssues = []types.Issue{}
	}
	return Report{Entries: b.entries, FileIssues: fileIssues, Stats: stats}
}

// Dedupe drops issues repeating an earlier (type, message) pair.
func Dedupe(issues []types.Issue) []types.Issue {
	type key struct {
		t   types.IssueType
		msg string
	}
	seen := make(map[key]bool)
	out := []types.Issue{}
	for _, i := range issues {
		k := key{i.Type, i.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, i)
	}
	return out
}

// StatusFor is ERROR if any issue is an error, WARNING if any is a
// warning, otherwise OK.
func StatusFor(issues []types.Issue) Status {
	status := StatusOK
	for _, i := range issues {
		switch i.Severity {
		case types.SeverityError:
			return StatusError
		case types.SeverityWarning:
			status = StatusWarning
		}
	}
	return status
}

// HasErrors reports whether any entry or file-level issue is an error.
func (r Report) HasErrors() bool {
	if r.Stats.Error > 0 {
		return true
	}
	for _, i := range r.FileIssues {
		if i.Severity == types.SeverityError {
			return true
		}
	}
	return false
}

// ErrorKeys lists the citekeys of entries with status ERROR.
func (r Report) ErrorKeys() []string {
	var keys []string
	for _, e := range r.Entries {
		if e.Status == StatusError {
			keys = append(keys, e.CiteKey)
		}
	}
	return keys
}
