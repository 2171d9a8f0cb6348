// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides which resolution strategy fits an entry.
package classify

import (
	"regexp"
	"strings"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// Kind is the resolution strategy for an entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindScholarlyDOI
	KindPreprintArxiv
	KindSoftwareGitHub
	KindWebGeneric
	KindScholarlyCSLike
)

func (k Kind) String() string {
	switch k {
	case KindScholarlyDOI:
		return "scholarly_doi"
	case KindPreprintArxiv:
		return "preprint_arxiv"
	case KindSoftwareGitHub:
		return "software_github"
	case KindWebGeneric:
		return "web_generic"
	case KindScholarlyCSLike:
		return "scholarly_cslike"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var (
	// arxivNewPattern matches "2301.07041" and "2301.07041v2".
	arxivNewPattern = regexp.MustCompile(`(?i)\b\d{4}\.\d{4,5}(?:v\d+)?\b`)
	// arxivOldPattern matches "hep-th/9901001".
	arxivOldPattern = regexp.MustCompile(`(?i)\b[a-z\-]+/\d{7}(?:v\d+)?\b`)
	arxivURLPattern = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/([^?#\s]+)`)
	pdfSuffix       = regexp.MustCompile(`(?i)\.pdf$`)
	arxivVersion    = regexp.MustCompile(`v\d+$`)

	githubPattern = regexp.MustCompile(`(?i)https?://github\.com/([^/\s{}]+)/([^/\s#?{}()]+)`)
)

// webTypes are loosely-typed entry types resolved by generic search when
// they carry a URL.
var webTypes = map[string]bool{
	"misc":       true,
	"online":     true,
	"software":   true,
	"manual":     true,
	"techreport": true,
}

// Classify returns the first matching kind: DOI, arXiv preprint, GitHub
// software, web resource, conference/journal paper, unknown.
func Classify(e types.Entry) Kind {
	switch {
	case e.Has("doi"):
		return KindScholarlyDOI
	case ArxivID(e) != "":
		return KindPreprintArxiv
	case GitHubRepo(e) != "":
		return KindSoftwareGitHub
	case webTypes[e.Type] && e.Has("url"):
		return KindWebGeneric
	case e.Type == "inproceedings" || e.Type == "proceedings" || e.Has("booktitle"):
		return KindScholarlyCSLike
	case e.Has("journal"):
		return KindScholarlyCSLike
	default:
		return KindUnknown
	}
}

// ArxivID derives an arXiv identifier from the eprint or arxivid field, or
// from an arxiv.org URL. It returns "" when none is found. A version
// suffix is kept.
func ArxivID(e types.Entry) string {
	eprint := e.Get("eprint")
	if eprint == "" {
		eprint = e.Get("arxivid")
	}
	if id := matchArxiv(eprint); id != "" {
		return id
	}
	if m := arxivURLPattern.FindStringSubmatch(e.Get("url")); m != nil {
		return pdfSuffix.ReplaceAllString(m[1], "")
	}
	return ""
}

// StripVersion removes a trailing "vN" from an arXiv identifier.
func StripVersion(id string) string {
	return arxivVersion.ReplaceAllString(id, "")
}

func matchArxiv(s string) string {
	if s == "" {
		return ""
	}
	if m := arxivNewPattern.FindString(s); m != "" {
		return m
	}
	return arxivOldPattern.FindString(s)
}

// GitHubRepo returns the lower-cased "owner/repo" named by a github.com
// URL in the url, howpublished or note field, or "".
func GitHubRepo(e types.Entry) string {
	for _, field := range []string{"url", "howpublished", "note"} {
		if m := githubPattern.FindStringSubmatch(e.Get(field)); m != nil {
			repo := strings.TrimSuffix(m[2], ".git")
			return strings.ToLower(m[1] + "/" + repo)
		}
	}
	return ""
}
