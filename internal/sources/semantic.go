// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API paper endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper"

const semanticFields = "title,year,authors,venue,url,externalIds"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	*base
	// APIKey is an optional key for higher rate limits.
	APIKey string
}

// NewSemanticScholar returns a Semantic Scholar client.
func NewSemanticScholar(deps Deps, apiKey string) *SemanticScholar {
	return &SemanticScholar{base: newBase("s2", deps), APIKey: apiKey}
}

func (s *SemanticScholar) header() http.Header {
	if s.APIKey == "" {
		return nil
	}
	return http.Header{"x-api-key": {s.APIKey}}
}

// FetchByID resolves a DOI through /paper/DOI:<doi>.
func (s *SemanticScholar) FetchByID(ctx context.Context, doi string) (*types.Candidate, error) {
	doi = normalize.DOI(doi)
	if doi == "" {
		return nil, ErrNotFound
	}
	return s.lookupOne(ctx, "s2:doi:"+doi, func(ctx context.Context) (*types.Candidate, error) {
		reqURL := semanticAPIBase + "/DOI:" + escapeDOI(doi) + "?" + url.Values{"fields": {semanticFields}}.Encode()
		body, err := s.get(ctx, reqURL, s.header())
		if err != nil {
			return nil, err
		}

		var p semanticPaper
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, s.malformed(err)
		}
		cand, ok := p.candidate()
		if !ok {
			return nil, ErrNotFound
		}
		return &cand, nil
	})
}

// Search runs a keyword search over paper titles.
func (s *SemanticScholar) Search(ctx context.Context, q Query) ([]types.Candidate, error) {
	if q.Title == "" {
		return nil, nil
	}
	return s.lookupList(ctx, "s2:search:"+q.cacheKey(), func(ctx context.Context) ([]types.Candidate, error) {
		params := url.Values{
			"query":  {q.Title},
			"limit":  {strconv.Itoa(searchRows)},
			"fields": {semanticFields},
		}
		if q.Year != "" {
			params.Set("year", q.Year)
		}

		body, err := s.get(ctx, semanticAPIBase+"/search?"+params.Encode(), s.header())
		if err != nil {
			return nil, err
		}

		var resp struct {
			Data []semanticPaper `json:"data"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, s.malformed(err)
		}
		var out []types.Candidate
		for _, p := range resp.Data {
			if cand, ok := p.candidate(); ok {
				out = append(out, cand)
			}
		}
		return out, nil
	})
}

type semanticPaper struct {
	PaperID     string         `json:"paperId"`
	Title       string         `json:"title"`
	Year        int            `json:"year"`
	Venue       string         `json:"venue"`
	URL         string         `json:"url"`
	ExternalIDs map[string]any `json:"externalIds"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (p semanticPaper) candidate() (types.Candidate, bool) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return types.Candidate{}, false
	}
	c := types.Candidate{
		Source: "s2",
		ID:     p.PaperID,
		Title:  title,
		Venue:  p.Venue,
		URL:    p.URL,
	}
	if doi, ok := p.ExternalIDs["DOI"].(string); ok {
		c.DOI = normalize.CanonicalDOI(doi)
	}
	if p.Year > 0 {
		c.Year = strconv.Itoa(p.Year)
	}
	for _, a := range p.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	return c, true
}
