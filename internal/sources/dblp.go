// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// dblpAPIBase is the DBLP publication search endpoint. Declared as a var so
// tests can substitute an httptest server.
var dblpAPIBase = "https://dblp.org/search/publ/api"

// DBLP queries the DBLP publication search API. DBLP has no DOI endpoint;
// FetchByID searches for the DOI and takes the first hit.
type DBLP struct {
	*base
}

// NewDBLP returns a DBLP client.
func NewDBLP(deps Deps) *DBLP {
	return &DBLP{base: newBase("dblp", deps)}
}

// FetchByID searches DBLP for a DOI and returns the first hit.
func (d *DBLP) FetchByID(ctx context.Context, doi string) (*types.Candidate, error) {
	doi = normalize.DOI(doi)
	if doi == "" {
		return nil, ErrNotFound
	}
	hits, err := d.Search(ctx, Query{Title: doi})
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, ErrNotFound
	}
	return &hits[0], nil
}

// Search sends "title year author" as one query string.
func (d *DBLP) Search(ctx context.Context, q Query) ([]types.Candidate, error) {
	if q.Title == "" {
		return nil, nil
	}
	return d.lookupList(ctx, "dblp:search:"+q.cacheKey(), func(ctx context.Context) ([]types.Candidate, error) {
		query := strings.Join(nonEmpty(q.Title, q.Year, q.Author), " ")
		params := url.Values{
			"q":      {query},
			"format": {"json"},
			"h":      {strconv.Itoa(searchRows)},
		}

		body, err := d.get(ctx, dblpAPIBase+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var resp struct {
			Result struct {
				Hits struct {
					Hit []struct {
						Info dblpInfo `json:"info"`
					} `json:"hit"`
				} `json:"hits"`
			} `json:"result"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, d.malformed(err)
		}

		var out []types.Candidate
		for i, hit := range resp.Result.Hits.Hit {
			if i >= searchRows {
				break
			}
			if cand, ok := hit.Info.candidate(); ok {
				out = append(out, cand)
			}
		}
		return out, nil
	})
}

type dblpInfo struct {
	Key     string          `json:"key"`
	Title   string          `json:"title"`
	Year    string          `json:"year"`
	Venue   json.RawMessage `json:"venue"`
	DOI     string          `json:"doi"`
	URL     string          `json:"url"`
	EE      json.RawMessage `json:"ee"`
	Volume  string          `json:"volume"`
	Number  string          `json:"number"`
	Pages   string          `json:"pages"`
	Authors struct {
		Author json.RawMessage `json:"author"`
	} `json:"authors"`
}

type dblpAuthor struct {
	Text string `json:"text"`
}

func (info dblpInfo) candidate() (types.Candidate, bool) {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		return types.Candidate{}, false
	}
	c := types.Candidate{
		Source: "dblp",
		ID:     info.Key,
		DOI:    normalize.CanonicalDOI(info.DOI),
		Title:  title,
		Year:   info.Year,
		URL:    info.URL,
		Volume: info.Volume,
		Number: info.Number,
		Pages:  info.Pages,
	}
	if venues := stringOrList(info.Venue); len(venues) > 0 {
		c.Venue = venues[0]
	}
	if c.URL == "" {
		if ee := stringOrList(info.EE); len(ee) > 0 {
			c.URL = ee[0]
		}
	}

	// A single author is an object, several are a list.
	var authors []dblpAuthor
	if err := json.Unmarshal(info.Authors.Author, &authors); err != nil {
		var one dblpAuthor
		if err := json.Unmarshal(info.Authors.Author, &one); err == nil {
			authors = []dblpAuthor{one}
		}
	}
	for _, a := range authors {
		if name := strings.TrimSpace(a.Text); name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	return c, true
}

// stringOrList decodes a JSON value that is either a string or a list of
// strings.
func stringOrList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return nonEmpty(one)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return nonEmpty(many...)
	}
	return nil
}
