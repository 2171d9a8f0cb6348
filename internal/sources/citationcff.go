// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bibcheck/internal/normalize"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// citationCFFBase serves raw repository files. Declared as a var so tests
// can substitute an httptest server.
var citationCFFBase = "https://raw.githubusercontent.com"

// cffBranches are tried in order.
var cffBranches = []string{"main", "master"}

// CitationCFF reads a GitHub repository's CITATION.cff file. It has no
// search.
type CitationCFF struct {
	*base
}

// NewCitationCFF returns a CITATION.cff client.
func NewCitationCFF(deps Deps) *CitationCFF {
	return &CitationCFF{base: newBase("citation_cff", deps)}
}

// FetchByID takes "owner/repo" and returns the software record described by
// the repository's CITATION.cff. A repository without one yields
// ErrNotFound.
func (c *CitationCFF) FetchByID(ctx context.Context, repo string) (*types.Candidate, error) {
	owner, name, ok := strings.Cut(strings.Trim(repo, "/ "), "/")
	if !ok || owner == "" || name == "" {
		return nil, ErrNotFound
	}
	return c.lookupOne(ctx, fmt.Sprintf("citationcff:%s/%s", owner, name), func(ctx context.Context) (*types.Candidate, error) {
		var lastErr error
		for _, branch := range cffBranches {
			body, err := c.get(ctx, fmt.Sprintf("%s/%s/%s/%s/CITATION.cff", citationCFFBase, owner, name, branch), nil)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				lastErr = err
				continue
			}
			if cand, ok := parseCFF(body, owner, name); ok {
				return &cand, nil
			}
		}
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrNotFound
	})
}

// Search is not supported by the CITATION.cff client.
func (c *CitationCFF) Search(context.Context, Query) ([]types.Candidate, error) {
	return nil, nil
}

type cffFile struct {
	Title        string      `yaml:"title"`
	Message      string      `yaml:"message"`
	DOI          string      `yaml:"doi"`
	Version      string      `yaml:"version"`
	DateReleased string      `yaml:"date-released"`
	Authors      []cffAuthor `yaml:"authors"`
	Identifiers  []struct {
		Type  string `yaml:"type"`
		Value string `yaml:"value"`
	} `yaml:"identifiers"`
}

type cffAuthor struct {
	FamilyNames string `yaml:"family-names"`
	GivenNames  string `yaml:"given-names"`
	Name        string `yaml:"name"`
}

func parseCFF(data []byte, owner, repo string) (types.Candidate, bool) {
	var f cffFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return types.Candidate{}, false
	}
	title := strings.TrimSpace(f.Title)
	if title == "" {
		title = strings.TrimSpace(f.Message)
	}
	if title == "" {
		return types.Candidate{}, false
	}

	c := types.Candidate{
		Source:  "citation_cff",
		ID:      owner + "/" + repo,
		Title:   title,
		DOI:     normalize.CanonicalDOI(f.DOI),
		Version: f.Version,
		URL:     fmt.Sprintf("https://github.com/%s/%s", owner, repo),
	}
	if c.DOI == "" {
		for _, id := range f.Identifiers {
			if strings.EqualFold(id.Type, "doi") {
				c.DOI = normalize.CanonicalDOI(id.Value)
				break
			}
		}
	}
	if len(f.DateReleased) >= 4 {
		c.Year = f.DateReleased[:4]
	}
	for _, a := range f.Authors {
		name := strings.Join(nonEmpty(a.GivenNames, a.FamilyNames), " ")
		if name == "" {
			name = strings.TrimSpace(a.Name)
		}
		if name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	return c, true
}
