// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cffBody = `cff-version: 1.2.0
message: If you use this software, please cite it.
title: Widget Toolkit
version: 2.1.0
date-released: 2021-03-15
authors:
  - family-names: Smith
    given-names: Alice
  - name: The Widget Team
identifiers:
  - type: doi
    value: 10.5281/zenodo.12345
`

func TestCitationCFFFallsBackToMaster(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/acme/widget/master/CITATION.cff" {
			w.Write([]byte(cffBody))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()
	setBase(t, &citationCFFBase, ts.URL)

	deps, _ := testDeps()
	got, err := NewCitationCFF(deps).FetchByID(context.Background(), "acme/widget")
	require.NoError(t, err)

	assert.Equal(t, []string{"/acme/widget/main/CITATION.cff", "/acme/widget/master/CITATION.cff"}, paths)
	assert.Equal(t, "citation_cff", got.Source)
	assert.Equal(t, "Widget Toolkit", got.Title)
	assert.Equal(t, "2021", got.Year)
	assert.Equal(t, "2.1.0", got.Version)
	assert.Equal(t, "10.5281/zenodo.12345", got.DOI)
	assert.Equal(t, []string{"Alice Smith", "The Widget Team"}, got.Authors)
	assert.Equal(t, "https://github.com/acme/widget", got.URL)
}

func TestCitationCFFMissingIsCached(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()
	setBase(t, &citationCFFBase, ts.URL)

	deps, _ := testDeps()
	c := NewCitationCFF(deps)
	for range 2 {
		_, err := c.FetchByID(context.Background(), "acme/nocff")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "main and master tried once")
}

func TestCitationCFFBadRepo(t *testing.T) {
	deps, _ := testDeps()
	_, err := NewCitationCFF(deps).FetchByID(context.Background(), "noslash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseCFFMessageFallback(t *testing.T) {
	got, ok := parseCFF([]byte("message: Cite me\n"), "o", "r")
	require.True(t, ok)
	assert.Equal(t, "Cite me", got.Title)

	_, ok = parseCFF([]byte("authors: []\n"), "o", "r")
	assert.False(t, ok)
}
