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

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so tests
// can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex API.
type OpenAlex struct {
	*base
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// NewOpenAlex returns an OpenAlex client.
func NewOpenAlex(deps Deps, email string) *OpenAlex {
	return &OpenAlex{base: newBase("openalex", deps), Email: email}
}

// FetchByID resolves a DOI through /works/https://doi.org/<doi>.
func (o *OpenAlex) FetchByID(ctx context.Context, doi string) (*types.Candidate, error) {
	doi = normalize.DOI(doi)
	if doi == "" {
		return nil, ErrNotFound
	}
	return o.lookupOne(ctx, "openalex:doi:"+doi, func(ctx context.Context) (*types.Candidate, error) {
		reqURL := openAlexAPIBase + "/https://doi.org/" + escapeDOI(doi)
		if o.Email != "" {
			reqURL += "?" + url.Values{"mailto": {o.Email}}.Encode()
		}
		body, err := o.get(ctx, reqURL, nil)
		if err != nil {
			return nil, err
		}

		var work openAlexWork
		if err := json.Unmarshal(body, &work); err != nil {
			return nil, o.malformed(err)
		}
		cand, ok := work.candidate()
		if !ok {
			return nil, ErrNotFound
		}
		return &cand, nil
	})
}

// Search filters works by title, publication year and first author.
func (o *OpenAlex) Search(ctx context.Context, q Query) ([]types.Candidate, error) {
	if q.Title == "" {
		return nil, nil
	}
	return o.lookupList(ctx, "openalex:search:"+q.cacheKey(), func(ctx context.Context) ([]types.Candidate, error) {
		filters := []string{"display_name.search:" + filterValue(q.Title)}
		if q.Year != "" {
			filters = append(filters,
				fmt.Sprintf("from_publication_date:%s-01-01", q.Year),
				fmt.Sprintf("to_publication_date:%s-12-31", q.Year))
		}
		if q.Author != "" {
			filters = append(filters, "authorships.author.display_name.search:"+filterValue(q.Author))
		}
		params := url.Values{
			"filter":   {strings.Join(filters, ",")},
			"per-page": {strconv.Itoa(searchRows)},
		}
		if o.Email != "" {
			params.Set("mailto", o.Email)
		}

		body, err := o.get(ctx, openAlexAPIBase+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var resp struct {
			Results []openAlexWork `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, o.malformed(err)
		}
		var out []types.Candidate
		for _, w := range resp.Results {
			if cand, ok := w.candidate(); ok {
				out = append(out, cand)
			}
		}
		return out, nil
	})
}

// filterValue drops the characters OpenAlex uses as filter separators.
func filterValue(s string) string {
	s = strings.NewReplacer(",", " ", "|", " ", ":", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

type openAlexWork struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	Title           string `json:"title"`
	DOI             string `json:"doi"`
	PublicationYear int    `json:"publication_year"`
	Authorships     []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation *struct {
		LandingPageURL string `json:"landing_page_url"`
		Source         *struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
	Biblio struct {
		Volume    string `json:"volume"`
		Issue     string `json:"issue"`
		FirstPage string `json:"first_page"`
		LastPage  string `json:"last_page"`
	} `json:"biblio"`
}

func (w openAlexWork) candidate() (types.Candidate, bool) {
	title := strings.TrimSpace(w.DisplayName)
	if title == "" {
		title = strings.TrimSpace(w.Title)
	}
	if title == "" {
		return types.Candidate{}, false
	}
	c := types.Candidate{
		Source: "openalex",
		ID:     w.ID,
		DOI:    normalize.CanonicalDOI(w.DOI),
		Title:  title,
		URL:    w.ID,
		Volume: w.Biblio.Volume,
		Number: w.Biblio.Issue,
	}
	if w.PublicationYear > 0 {
		c.Year = strconv.Itoa(w.PublicationYear)
	}
	for _, a := range w.Authorships {
		if name := strings.TrimSpace(a.Author.DisplayName); name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	if w.PrimaryLocation != nil {
		if w.PrimaryLocation.Source != nil {
			c.Venue = w.PrimaryLocation.Source.DisplayName
		}
		if w.PrimaryLocation.LandingPageURL != "" {
			c.URL = w.PrimaryLocation.LandingPageURL
		}
	}
	switch {
	case w.Biblio.FirstPage != "" && w.Biblio.LastPage != "" && w.Biblio.FirstPage != w.Biblio.LastPage:
		c.Pages = w.Biblio.FirstPage + "--" + w.Biblio.LastPage
	case w.Biblio.FirstPage != "":
		c.Pages = w.Biblio.FirstPage
	}
	return c, true
}
