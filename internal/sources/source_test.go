// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcheck/internal/cache"
	"github.com/pdiddy/bibcheck/internal/httputil"
	"github.com/pdiddy/bibcheck/internal/metrics"
	"github.com/pdiddy/bibcheck/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// setBase points a package-level endpoint at a test server for one test.
func setBase(t *testing.T, target *string, value string) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

func testDeps() (Deps, *cache.Memory) {
	c := cache.NewMemory()
	return Deps{Client: http.DefaultClient, Cache: c, UserAgent: "bibcheck-test"}, c
}

func TestNotFoundIsCachedAndNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()
	setBase(t, &crossrefAPIBase, ts.URL)

	deps, _ := testDeps()
	c := NewCrossref(deps, "")

	_, err := c.FetchByID(context.Background(), "10.1/missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.FetchByID(context.Background(), "10.1/missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup served from the not-found marker")
}

func TestTransientFailureIsNotCached(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	setBase(t, &crossrefAPIBase, ts.URL)

	deps, mem := testDeps()
	c := NewCrossref(deps, "")

	_, err := c.Search(context.Background(), Query{Title: "cats on mat"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "one attempt plus two retries")
	assert.Equal(t, 0, mem.Len())
}

func TestEmptySearchIsCached(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"status":"ok","message":{"items":[]}}`))
	}))
	defer ts.Close()
	setBase(t, &crossrefAPIBase, ts.URL)

	deps, _ := testDeps()
	c := NewCrossref(deps, "")

	for range 2 {
		got, err := c.Search(context.Background(), Query{Title: "nothing here", Year: "2020"})
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMalformedPayloadIsDiscarded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()
	setBase(t, &openAlexAPIBase, ts.URL)

	deps, mem := testDeps()
	o := NewOpenAlex(deps, "")

	_, err := o.FetchByID(context.Background(), "10.1/x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, mem.Len())
}

func TestMetricsAreRecorded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","message":{"DOI":"10.1/x","title":["T"]}}`))
	}))
	defer ts.Close()
	setBase(t, &crossrefAPIBase, ts.URL)

	deps, _ := testDeps()
	deps.Metrics = metrics.New(prometheus.NewRegistry())
	c := NewCrossref(deps, "")

	_, err := c.FetchByID(context.Background(), "10.1/x")
	require.NoError(t, err)
	_, err = c.FetchByID(context.Background(), "10.1/x")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(deps.Metrics.ProviderRequests.WithLabelValues("crossref", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.Metrics.CacheLookups.WithLabelValues("crossref", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.Metrics.CacheLookups.WithLabelValues("crossref", "miss")))
}

func TestUserAgentIsSent(t *testing.T) {
	var ua atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()
	setBase(t, &openAlexAPIBase, ts.URL)

	deps, _ := testDeps()
	_, err := NewOpenAlex(deps, "").Search(context.Background(), Query{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "bibcheck-test", ua.Load())
}

func TestNewRegistry(t *testing.T) {
	deps, _ := testDeps()
	reg := NewRegistry(types.DefaultConfig().Online, deps)
	for _, name := range []string{"crossref", "openalex", "s2", "dblp", "arxiv", "citation_cff"} {
		require.Contains(t, reg, name)
		assert.Equal(t, name, reg[name].Name())
	}
}
