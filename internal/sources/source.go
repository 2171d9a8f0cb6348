// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements the online metadata providers (Crossref,
// OpenAlex, Semantic Scholar, DBLP, arXiv and GitHub CITATION.cff). Every
// client shares the same request path: response cache first, then the
// per-source rate limiter, then one HTTP attempt with bounded retries.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/bibcheck/internal/cache"
	"github.com/pdiddy/bibcheck/internal/httputil"
	"github.com/pdiddy/bibcheck/internal/metrics"
	"github.com/pdiddy/bibcheck/internal/ratelimit"
	"github.com/pdiddy/bibcheck/pkg/types"
)

var (
	// ErrNotFound reports a definitive absence: HTTP 404, an empty result
	// or a cached not-found marker.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable reports a transient failure after retries. These
	// results are never cached.
	ErrUnavailable = errors.New("provider unavailable")
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 8 << 20

// searchRows is the number of search hits requested from each provider.
const searchRows = 5

// Source is one online metadata provider.
type Source interface {
	Name() string
	// FetchByID looks up a record by its provider identifier (DOI, arXiv id
	// or owner/repo). It returns ErrNotFound when the record does not exist.
	FetchByID(ctx context.Context, id string) (*types.Candidate, error)
	// Search runs a title query and returns candidates in provider
	// relevance order. Providers without search return nil.
	Search(ctx context.Context, q Query) ([]types.Candidate, error)
}

// Query is a normalized search request.
type Query struct {
	Title  string
	Year   string
	Author string
}

func (q Query) cacheKey() string {
	return fmt.Sprintf("%s:%s:%s", q.Title, q.Year, q.Author)
}

// Deps are the collaborators shared by every client in a run.
type Deps struct {
	Client    *http.Client
	Cache     cache.Cache
	Limiter   *ratelimit.Limiter
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	UserAgent string
}

// base carries the request path shared by all clients.
type base struct {
	name  string
	deps  Deps
	group singleflight.Group
}

func newBase(name string, deps Deps) *base {
	if deps.Client == nil {
		deps.Client = &http.Client{Timeout: 20 * time.Second}
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemory()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.UserAgent == "" {
		deps.UserAgent = "bibcheck/0.1"
	}
	return &base{name: name, deps: deps}
}

// Name returns the provider identifier.
func (b *base) Name() string { return b.name }

// cachedRecord is the stored form of a single-record lookup. Found=false is
// the not-found marker.
type cachedRecord struct {
	Found     bool             `json:"found"`
	Candidate *types.Candidate `json:"candidate,omitempty"`
}

// lookupOne serves a single-record lookup from the cache or runs fetch.
// Concurrent misses for the same key share one fetch. Definitive absences
// are cached; transient failures are not.
func (b *base) lookupOne(ctx context.Context, key string, fetch func(context.Context) (*types.Candidate, error)) (*types.Candidate, error) {
	var rec cachedRecord
	ok, err := cache.GetJSON(ctx, b.deps.Cache, key, &rec)
	if err != nil {
		b.deps.Logger.Warn("cache read failed", "source", b.name, "key", key, "error", err)
	}
	b.deps.Metrics.ObserveCache(b.name, ok)
	if ok {
		if !rec.Found || rec.Candidate == nil {
			return nil, ErrNotFound
		}
		return rec.Candidate, nil
	}

	v, err, _ := b.group.Do(key, func() (any, error) {
		c, err := fetch(ctx)
		if errors.Is(err, ErrNotFound) {
			b.store(ctx, key, cachedRecord{Found: false})
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		b.store(ctx, key, cachedRecord{Found: true, Candidate: c})
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	c := *v.(*types.Candidate)
	return &c, nil
}

// lookupList is lookupOne for search results. An empty list is a valid,
// cached answer.
func (b *base) lookupList(ctx context.Context, key string, fetch func(context.Context) ([]types.Candidate, error)) ([]types.Candidate, error) {
	var list []types.Candidate
	ok, err := cache.GetJSON(ctx, b.deps.Cache, key, &list)
	if err != nil {
		b.deps.Logger.Warn("cache read failed", "source", b.name, "key", key, "error", err)
	}
	b.deps.Metrics.ObserveCache(b.name, ok)
	if ok {
		return list, nil
	}

	v, err, _ := b.group.Do(key, func() (any, error) {
		list, err := fetch(ctx)
		if errors.Is(err, ErrNotFound) {
			list, err = []types.Candidate{}, nil
		}
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []types.Candidate{}
		}
		b.store(ctx, key, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]types.Candidate(nil), v.([]types.Candidate)...), nil
}

func (b *base) store(ctx context.Context, key string, v any) {
	if err := cache.SetJSON(ctx, b.deps.Cache, key, v); err != nil {
		b.deps.Logger.Warn("cache write failed", "source", b.name, "key", key, "error", err)
	}
}

// get performs one rate-limited GET with retries and returns the body of a
// 200 response. 404 maps to ErrNotFound; anything else that is not 200
// maps to ErrUnavailable.
func (b *base) get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	if err := b.deps.Limiter.Wait(ctx, b.name); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.deps.UserAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, b.deps.Client, req, 0)
	if err != nil {
		b.deps.Metrics.ObserveRequest(b.name, "error", start)
		b.deps.Logger.Warn("provider request failed", "source", b.name, "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %s request: %w", ErrUnavailable, b.name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		b.deps.Metrics.ObserveRequest(b.name, "not_found", start)
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		b.deps.Metrics.ObserveRequest(b.name, "error", start)
		b.deps.Logger.Warn("provider returned error status", "source", b.name, "url", rawURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrUnavailable, b.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		b.deps.Metrics.ObserveRequest(b.name, "error", start)
		return nil, fmt.Errorf("%w: reading %s response: %w", ErrUnavailable, b.name, err)
	}
	b.deps.Metrics.ObserveRequest(b.name, "ok", start)
	b.deps.Logger.Debug("provider request", "source", b.name, "url", rawURL, "duration", time.Since(start))
	return body, nil
}

// malformed wraps a decode failure. The payload is discarded and not cached.
func (b *base) malformed(err error) error {
	b.deps.Logger.Warn("discarding malformed payload", "source", b.name, "error", err)
	return fmt.Errorf("%w: %s payload: %w", ErrUnavailable, b.name, err)
}

// escapeDOI escapes each path segment of a DOI, keeping the slashes.
func escapeDOI(doi string) string {
	parts := strings.Split(doi, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Registry maps provider names to clients.
type Registry map[string]Source

// NewRegistry builds every provider client around the shared deps.
func NewRegistry(cfg types.OnlineConfig, deps Deps) Registry {
	return Registry{
		"crossref":     NewCrossref(deps, cfg.CrossrefMailto),
		"openalex":     NewOpenAlex(deps, cfg.OpenAlexEmail),
		"s2":           NewSemanticScholar(deps, cfg.SemanticScholarAPIKey),
		"dblp":         NewDBLP(deps),
		"arxiv":        NewArxiv(deps),
		"citation_cff": NewCitationCFF(deps),
	}
}
