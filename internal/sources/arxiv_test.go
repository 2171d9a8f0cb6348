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

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v5</id>
    <updated>2023-08-02T00:41:18Z</updated>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <arxiv:doi>10.48550/ARXIV.1706.03762</arxiv:doi>
  </entry>
</feed>`

const arxivErrorXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_9999.99999</id>
    <title>Error</title>
  </entry>
</feed>`

func TestArxivFetchByID(t *testing.T) {
	var idList string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idList = r.URL.Query().Get("id_list")
		w.Write([]byte(arxivFeedXML))
	}))
	defer ts.Close()
	setBase(t, &arxivAPIBase, ts.URL)

	deps, _ := testDeps()
	got, err := NewArxiv(deps).FetchByID(context.Background(), "1706.03762")
	require.NoError(t, err)

	assert.Equal(t, "1706.03762", idList)
	assert.Equal(t, "arxiv", got.Source)
	assert.Equal(t, "1706.03762", got.ID)
	assert.Equal(t, "Attention Is All You Need", got.Title)
	assert.Equal(t, "2017", got.Year)
	assert.Equal(t, "arXiv", got.Venue)
	assert.Equal(t, "10.48550/arxiv.1706.03762", got.DOI)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, got.Authors)
}

func TestArxivUnknownID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(arxivErrorXML))
	}))
	defer ts.Close()
	setBase(t, &arxivAPIBase, ts.URL)

	deps, _ := testDeps()
	_, err := NewArxiv(deps).FetchByID(context.Background(), "9999.99999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArxivSearchReturnsNothing(t *testing.T) {
	deps, _ := testDeps()
	got, err := NewArxiv(deps).Search(context.Background(), Query{Title: "x"})
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v2", "hep-th/9901001"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://example.com/x", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractArxivID(tt.in), tt.in)
	}
}
