// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv looks up preprints by arXiv identifier. It has no search.
type Arxiv struct {
	*base
}

// NewArxiv returns an arXiv client.
func NewArxiv(deps Deps) *Arxiv {
	return &Arxiv{base: newBase("arxiv", deps)}
}

// FetchByID fetches the Atom entry for an arXiv identifier.
func (a *Arxiv) FetchByID(ctx context.Context, id string) (*types.Candidate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return a.lookupOne(ctx, "arxiv:id:"+id, func(ctx context.Context) (*types.Candidate, error) {
		body, err := a.get(ctx, arxivAPIBase+"?"+url.Values{"id_list": {id}}.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var feed arxivFeed
		if err := xml.Unmarshal(body, &feed); err != nil {
			return nil, a.malformed(err)
		}
		for _, e := range feed.Entries {
			if cand, ok := e.candidate(); ok {
				return &cand, nil
			}
		}
		return nil, ErrNotFound
	})
}

// Search is not supported by the arXiv client.
func (a *Arxiv) Search(context.Context, Query) ([]types.Candidate, error) {
	return nil, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Published string        `xml:"published"`
	Updated   string        `xml:"updated"`
	Authors   []arxivAuthor `xml:"author"`
	DOI       string        `xml:"http://arxiv.org/schemas/atom doi"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

func (e arxivEntry) candidate() (types.Candidate, bool) {
	// Unknown ids come back as a single entry pointing at the errors page.
	if strings.Contains(e.ID, "/api/errors") {
		return types.Candidate{}, false
	}
	title := strings.Join(strings.Fields(e.Title), " ")
	if title == "" {
		return types.Candidate{}, false
	}
	c := types.Candidate{
		Source: "arxiv",
		ID:     extractArxivID(e.ID),
		DOI:    normalize.CanonicalDOI(e.DOI),
		Title:  title,
		Venue:  "arXiv",
		URL:    strings.TrimSpace(e.ID),
	}
	date := e.Published
	if date == "" {
		date = e.Updated
	}
	if len(date) >= 4 {
		c.Year = date[:4]
	}
	for _, au := range e.Authors {
		if name := strings.Join(strings.Fields(au.Name), " "); name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	return c, true
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := strings.TrimSpace(idURL[idx+len(prefix):])
	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
