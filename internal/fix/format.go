// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fix

import (
	"regexp"
	"strings"
)

var (
	pagePrefix = regexp.MustCompile(`^[pP]{1,2}\.?\s*`)
	pageRange  = regexp.MustCompile(`^(\d+)-{1,2}(\d+)$`)
)

// NormalizePages strips a "p."/"pp." prefix and rewrites numeric ranges to
// the BibTeX "start--end" form. A range whose ends are equal collapses to a
// single page. Anything else is returned trimmed. The result is stable under
// repeated application.
func NormalizePages(pages string) string {
	p := strings.TrimSpace(pages)
	p = pagePrefix.ReplaceAllString(p, "")
	p = strings.NewReplacer("–", "-", "—", "-").Replace(p)
	m := pageRange.FindStringSubmatch(p)
	if m == nil {
		return p
	}
	if m[1] == m[2] {
		return m[1]
	}
	return m[1] + "--" + m[2]
}

const latexApostrophe = `{\textquoteright}`

// LatexApostrophes rewrites every apostrophe in an author list, ASCII or
// typographic, as {\textquoteright}.
func LatexApostrophes(authors string) string {
	s := strings.NewReplacer(latexApostrophe, "’", "'", "’").Replace(authors)
	return strings.ReplaceAll(s, "’", latexApostrophe)
}

// FormatAuthors renders display names as a BibTeX author list. "First Last"
// becomes "Last, First"; names already containing a comma are kept.
func FormatAuthors(authors []string) string {
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		name := strings.TrimSpace(a)
		if name == "" {
			continue
		}
		if strings.Contains(name, ",") {
			out = append(out, name)
			continue
		}
		parts := strings.Fields(name)
		if len(parts) == 1 {
			out = append(out, parts[0])
			continue
		}
		last := parts[len(parts)-1]
		out = append(out, last+", "+strings.Join(parts[:len(parts)-1], " "))
	}
	return strings.Join(out, " and ")
}
