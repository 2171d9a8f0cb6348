// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bibcheck/internal/resolve"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Source         string    `yaml:"source,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the resolved record of every resolved entry as a
// CSL-YAML list keyed by the local citekey. Unresolved entries are skipped.
func FormatCSL(w io.Writer, r Report) error {
	items := []CSLItem{}
	for _, e := range r.Entries {
		if e.Online == nil || e.Online.Status != resolve.StatusResolved || e.Online.Resolved == nil {
			continue
		}
		items = append(items, toCSLItem(e.CiteKey, e.EntryType, *e.Online.Resolved))
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding csl: %w", err)
	}
	return nil
}

// cslTypes maps BibTeX entry types onto CSL item types.
var cslTypes = map[string]string{
	"article":       "article-journal",
	"inproceedings": "paper-conference",
	"proceedings":   "book",
	"book":          "book",
	"techreport":    "report",
	"software":      "software",
}

func toCSLItem(citekey, entryType string, c types.Candidate) CSLItem {
	typ, ok := cslTypes[entryType]
	if !ok {
		typ = "article"
	}
	if strings.EqualFold(c.Venue, "arxiv") {
		typ = "article"
	}
	item := CSLItem{
		ID:             citekey,
		Type:           typ,
		Title:          c.Title,
		ContainerTitle: c.Venue,
		Volume:         c.Volume,
		Issue:          c.Number,
		Page:           strings.ReplaceAll(c.Pages, "--", "-"),
		DOI:            c.DOI,
		URL:            c.URL,
		Source:         c.Source,
	}
	for _, a := range c.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if year, err := strconv.Atoi(strings.TrimSpace(c.Year)); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	return item
}

// parseAuthorName splits a display name into CSL family/given parts.
// "Family, Given" is split on the comma; otherwise the last token is the
// family name. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
