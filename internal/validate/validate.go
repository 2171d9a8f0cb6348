// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate runs offline checks on parsed entries: citekey
// uniqueness, required fields per entry type and field format rules.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// requiredFields lists the fields each entry type must carry.
var requiredFields = map[string][]string{
	"article":       {"title", "author", "year", "journal"},
	"inproceedings": {"title", "author", "year", "booktitle"},
	"proceedings":   {"title", "year"},
	"book":          {"title", "author", "year", "publisher"},
	"misc":          {"title"},
}

var defaultRequired = []string{"title", "author", "year"}

const maxAuthors = 20

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	doiPattern   = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	urlPattern   = regexp.MustCompile(`^https?://\S+$`)
	pagesPattern = regexp.MustCompile(`^(\d+|[A-Za-z]?\d+--[A-Za-z]?\d+)$`)
	pageDash     = regexp.MustCompile(`(\d)\s*-\s*(\d)`)
)

// Validator holds the reference year for BAD_YEAR checks.
type Validator struct {
	CurrentYear int
}

// New returns a validator for the current calendar year.
func New() *Validator {
	return &Validator{CurrentYear: time.Now().Year()}
}

// Run checks every entry and returns the issues keyed by citekey.
// Entries sharing a citekey share the same issue list.
func (v *Validator) Run(entries []types.Entry) map[string][]types.Issue {
	out := make(map[string][]types.Issue)

	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if counts[e.ID] == 0 {
			order = append(order, e.ID)
		}
		counts[e.ID]++
	}
	for _, key := range order {
		if n := counts[key]; n > 1 {
			out[key] = append(out[key], types.NewError(types.IssueDuplicateCitekey,
				fmt.Sprintf("citekey %q appears %d times", key, n), map[string]any{"count": n}))
		}
	}

	for _, e := range entries {
		out[e.ID] = append(out[e.ID], v.Check(e)...)
	}
	return out
}

// Check runs the per-entry rules.
func (v *Validator) Check(e types.Entry) []types.Issue {
	var issues []types.Issue

	required, ok := requiredFields[e.Type]
	if !ok {
		required = defaultRequired
	}
	var missing []string
	for _, f := range required {
		if !e.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, types.NewError(types.IssueMissingRequiredFields,
			"missing required fields: "+strings.Join(missing, ", "), map[string]any{"missing": missing}))
	}

	if year := e.Get("year"); year != "" && !v.validYear(year) {
		issues = append(issues, types.NewError(types.IssueBadYear, "invalid year: "+year, nil))
	}

	if raw := e.Get("doi"); raw != "" && !doiPattern.MatchString(normalize.DOI(raw)) {
		issues = append(issues, types.NewError(types.IssueBadDOIFormat, "malformed DOI: "+raw, nil))
	}

	if u := e.Get("url"); u != "" && !urlPattern.MatchString(u) {
		issues = append(issues, types.NewWarning(types.IssueBadURLFormat, "malformed URL: "+u, map[string]any{"url": u}))
	}

	if pages := e.Get("pages"); pages != "" {
		if norm := normalizePagesField(pages); !pagesPattern.MatchString(norm) {
			issues = append(issues, types.NewWarning(types.IssueSuspiciousMetadata, "unexpected pages format", map[string]any{
				"pages_raw":  pages,
				"pages_norm": norm,
				"hint":       "use -- between page numbers",
			}))
		}
	}

	if msgs := suspicious(e); len(msgs) > 0 {
		issues = append(issues, types.NewWarning(types.IssueSuspiciousMetadata, strings.Join(msgs, "; "), nil))
	}
	return issues
}

func (v *Validator) validYear(year string) bool {
	if !yearPattern.MatchString(year) {
		return false
	}
	n, _ := strconv.Atoi(year)
	return n >= 1500 && n <= v.CurrentYear+1
}

func suspicious(e types.Entry) []string {
	var msgs []string
	if title := e.Get("title"); title != "" && singleCase(title) {
		msgs = append(msgs, "title is all upper or all lower case")
	}
	if len(normalize.Authors(e.Get("author"))) > maxAuthors {
		msgs = append(msgs, "unusually many authors, author list may be malformed")
	}
	if venue := e.Venue(); venue != "" && utf8.RuneCountInString(venue) < 3 {
		msgs = append(msgs, "venue is too short")
	}
	return msgs
}

// singleCase reports whether s has cased letters and all of them share one
// case.
func singleCase(s string) bool {
	var upper, lower bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	return upper != lower
}

func normalizePagesField(p string) string {
	p = strings.TrimSpace(p)
	p = strings.NewReplacer("–", "--", "—", "--").Replace(p)
	p = pageDash.ReplaceAllString(p, "$1--$2")
	return strings.Join(strings.Fields(p), " ")
}
