// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// Crossref queries the Crossref REST API.
type Crossref struct {
	*base
	// Mailto is sent for polite pool access.
	Mailto string
}

// NewCrossref returns a Crossref client.
func NewCrossref(deps Deps, mailto string) *Crossref {
	return &Crossref{base: newBase("crossref", deps), Mailto: mailto}
}

// FetchByID resolves a DOI through /works/<doi>.
func (c *Crossref) FetchByID(ctx context.Context, doi string) (*types.Candidate, error) {
	doi = normalize.DOI(doi)
	if doi == "" {
		return nil, ErrNotFound
	}
	return c.lookupOne(ctx, "crossref:doi:"+doi, func(ctx context.Context) (*types.Candidate, error) {
		reqURL := crossrefAPIBase + "/" + escapeDOI(doi)
		if c.Mailto != "" {
			reqURL += "?" + url.Values{"mailto": {c.Mailto}}.Encode()
		}
		body, err := c.get(ctx, reqURL, nil)
		if err != nil {
			return nil, err
		}

		var resp struct {
			Status  string       `json:"status"`
			Message crossrefItem `json:"message"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, c.malformed(err)
		}
		if resp.Status != "ok" {
			return nil, ErrNotFound
		}
		cand, ok := resp.Message.candidate()
		if !ok {
			return nil, ErrNotFound
		}
		return &cand, nil
	})
}

// Search runs a bibliographic query limited to the entry's year.
func (c *Crossref) Search(ctx context.Context, q Query) ([]types.Candidate, error) {
	if q.Title == "" {
		return nil, nil
	}
	return c.lookupList(ctx, "crossref:search:"+q.cacheKey(), func(ctx context.Context) ([]types.Candidate, error) {
		params := url.Values{
			"query.bibliographic": {q.Title},
			"rows":                {strconv.Itoa(searchRows)},
		}
		if q.Year != "" {
			params.Set("filter", fmt.Sprintf("from-pub-date:%s,until-pub-date:%s", q.Year, q.Year))
		}
		if c.Mailto != "" {
			params.Set("mailto", c.Mailto)
		}

		body, err := c.get(ctx, crossrefAPIBase+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var resp struct {
			Status  string `json:"status"`
			Message struct {
				Items []crossrefItem `json:"items"`
			} `json:"message"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, c.malformed(err)
		}

		var out []types.Candidate
		if resp.Status != "ok" {
			return out, nil
		}
		for _, item := range resp.Message.Items {
			if cand, ok := item.candidate(); ok {
				out = append(out, cand)
			}
		}
		return out, nil
	})
}

type crossrefItem struct {
	DOI            string   `json:"DOI"`
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	URL            string   `json:"URL"`
	Volume         string   `json:"volume"`
	Issue          string   `json:"issue"`
	Page           string   `json:"page"`
	Author         []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
		Name   string `json:"name"`
	} `json:"author"`
	Issued struct {
		DateParts [][]*int `json:"date-parts"`
	} `json:"issued"`
}

func (it crossrefItem) candidate() (types.Candidate, bool) {
	title := strings.TrimSpace(strings.Join(it.Title, " "))
	if title == "" {
		return types.Candidate{}, false
	}
	c := types.Candidate{
		Source: "crossref",
		ID:     it.DOI,
		DOI:    normalize.CanonicalDOI(it.DOI),
		Title:  title,
		URL:    it.URL,
		Volume: it.Volume,
		Number: it.Issue,
		Pages:  it.Page,
	}
	if len(it.Issued.DateParts) > 0 && len(it.Issued.DateParts[0]) > 0 && it.Issued.DateParts[0][0] != nil {
		c.Year = strconv.Itoa(*it.Issued.DateParts[0][0])
	}
	for _, a := range it.Author {
		name := strings.TrimSpace(strings.Join(nonEmpty(a.Given, a.Family), " "))
		if name == "" {
			name = strings.TrimSpace(a.Name)
		}
		if name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	if len(it.ContainerTitle) > 0 {
		c.Venue = it.ContainerTitle[0]
	}
	return c, true
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
