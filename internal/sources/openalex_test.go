// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAlexWorkJSON = `{
  "id": "https://openalex.org/W1",
  "display_name": "Attention Is All You Need",
  "doi": "https://doi.org/10.48550/ARXIV.1706.03762",
  "publication_year": 2017,
  "authorships": [{"author": {"display_name": "Ashish Vaswani"}}, {"author": {"display_name": "Noam Shazeer"}}],
  "primary_location": {"landing_page_url": "https://arxiv.org/abs/1706.03762", "source": {"display_name": "arXiv (Cornell University)"}},
  "biblio": {"volume": "30", "issue": null, "first_page": "5998", "last_page": "6008"}
}`

func TestOpenAlexFetchByID(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(openAlexWorkJSON))
	}))
	defer ts.Close()
	setBase(t, &openAlexAPIBase, ts.URL)

	deps, _ := testDeps()
	got, err := NewOpenAlex(deps, "").FetchByID(context.Background(), "10.48550/arXiv.1706.03762")
	require.NoError(t, err)

	assert.Equal(t, "/https://doi.org/10.48550/arXiv.1706.03762", path)
	assert.Equal(t, "10.48550/arxiv.1706.03762", got.DOI, "arXiv DOIs are lower-cased")
	assert.Equal(t, "2017", got.Year)
	assert.Equal(t, "arXiv (Cornell University)", got.Venue)
	assert.Equal(t, "5998--6008", got.Pages)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, got.Authors)
}

func TestOpenAlexSearchFilter(t *testing.T) {
	var filter string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("filter")
		w.Write([]byte(`{"results":[` + openAlexWorkJSON + `]}`))
	}))
	defer ts.Close()
	setBase(t, &openAlexAPIBase, ts.URL)

	deps, _ := testDeps()
	got, err := NewOpenAlex(deps, "").Search(context.Background(), Query{Title: "attention is all you need", Year: "2017", Author: "Vaswani, Ashish"})
	require.NoError(t, err)

	assert.Equal(t,
		"display_name.search:attention is all you need,from_publication_date:2017-01-01,to_publication_date:2017-12-31,authorships.author.display_name.search:Vaswani Ashish",
		filter)
	require.Len(t, got, 1)
	assert.Equal(t, "openalex", got[0].Source)
}
