// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize holds the pure text normalizers shared by matching,
// resolution and fix planning. Every function is total: empty or malformed
// input yields an empty result, never an error.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	latexMathRe  = regexp.MustCompile(`\$[^$]*\$`)
	latexCmdRe   = regexp.MustCompile(`\\[a-zA-Z]+\s*|\{|\}`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	andRe        = regexp.MustCompile(`(?i)\band\b`)
	andSplitRe   = regexp.MustCompile(`(?i)\s+and\s+`)
	doiPrefixRe  = regexp.MustCompile(`(?i)^(?:https?://(?:dx\.)?doi\.org/|doi:\s*)`)

	venueParenRe = regexp.MustCompile(`\([^)]*\)`)
	venueYearRe  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	venueNoiseRe = regexp.MustCompile(`\bproceedings of the\b|\bproc\b\.?|\bconference on\b|\bieee\b|\bacm\b`)
)

// Title strips math, LaTeX commands, braces and ASCII punctuation, collapses
// whitespace and lower-cases.
func Title(s string) string {
	if s == "" {
		return ""
	}
	t := latexMathRe.ReplaceAllString(s, " ")
	t = latexCmdRe.ReplaceAllString(t, " ")
	t = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsPunct(r) || r < unicode.MaxASCII && unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, t)
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.ToLower(strings.TrimSpace(t))
}

// Authors splits an author field into individual names. "and" is the
// separator when present, then ";". Commas are never split on so that
// "Last, First" stays intact.
func Authors(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	switch {
	case andRe.MatchString(s):
		parts = andSplitRe.Split(s, -1)
	case strings.Contains(s, ";"):
		parts = strings.Split(s, ";")
	default:
		parts = []string{s}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstAuthor returns the first name of an author field, or "".
func FirstAuthor(s string) string {
	if a := Authors(s); len(a) > 0 {
		return a[0]
	}
	return ""
}

// DOI strips resolver URLs and the "doi:" prefix. Case is preserved.
func DOI(s string) string {
	d := strings.TrimSpace(s)
	if d == "" {
		return ""
	}
	d = doiPrefixRe.ReplaceAllString(d, "")
	return strings.TrimSpace(d)
}

// IsArxivDOI reports whether a DOI belongs to the arXiv prefix.
func IsArxivDOI(doi string) bool {
	return strings.HasPrefix(strings.ToLower(DOI(doi)), "10.48550/arxiv.")
}

// CanonicalDOI normalizes a DOI and lower-cases it when it is an arXiv DOI.
func CanonicalDOI(s string) string {
	d := DOI(s)
	if IsArxivDOI(d) {
		return strings.ToLower(d)
	}
	return d
}

// SameDOI compares two DOIs case-insensitively after normalization. Two
// empty DOIs are not the same.
func SameDOI(a, b string) bool {
	da, db := DOI(a), DOI(b)
	return da != "" && db != "" && strings.EqualFold(da, db)
}

// CleanVenue lower-cases a venue and removes parenthesised text, years and
// common proceedings boilerplate.
func CleanVenue(s string) string {
	v := strings.ToLower(s)
	v = venueParenRe.ReplaceAllString(v, " ")
	v = venueYearRe.ReplaceAllString(v, " ")
	v = venueNoiseRe.ReplaceAllString(v, " ")
	v = whitespaceRe.ReplaceAllString(v, " ")
	return strings.TrimSpace(v)
}

// Surname extracts the family name from "Last, First" or "First Last" and
// folds it for comparison.
func Surname(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if left, _, ok := strings.Cut(name, ","); ok {
		parts := strings.Fields(left)
		if len(parts) == 0 {
			return Fold(strings.TrimSpace(left))
		}
		return Fold(parts[len(parts)-1])
	}
	parts := strings.Fields(name)
	return Fold(parts[len(parts)-1])
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold removes diacritics and braces and lower-cases s.
func Fold(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ContainsCJK reports whether any rune is a CJK unified ideograph.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if r >= '一' && r <= '鿿' {
			return true
		}
	}
	return false
}
