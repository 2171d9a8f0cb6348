// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcheck/pkg/types"
)

func issueTypes(issues []types.Issue) []types.IssueType {
	var out []types.IssueType
	for _, i := range issues {
		out = append(out, i.Type)
	}
	return out
}

func TestCheck(t *testing.T) {
	v := &Validator{CurrentYear: 2026}
	good := map[string]string{
		"title": "Deep Residual Learning", "author": "He, Kaiming", "year": "2016",
		"journal": "Computer Vision", "doi": "10.1109/CVPR.2016.90", "url": "https://example.org/x", "pages": "770--778",
	}

	tests := []struct {
		name   string
		typ    string
		modify map[string]string
		want   []types.IssueType
	}{
		{"clean article", "article", nil, nil},
		{"missing journal", "article", map[string]string{"journal": ""}, []types.IssueType{types.IssueMissingRequiredFields}},
		{"unknown type needs title author year", "patent", map[string]string{"year": ""}, []types.IssueType{types.IssueMissingRequiredFields}},
		{"misc only needs title", "misc", map[string]string{"author": "", "year": "", "journal": ""}, nil},
		{"year too late", "article", map[string]string{"year": "2028"}, []types.IssueType{types.IssueBadYear}},
		{"next year allowed", "article", map[string]string{"year": "2027"}, nil},
		{"year not numeric", "article", map[string]string{"year": "20xx"}, []types.IssueType{types.IssueBadYear}},
		{"year too early", "article", map[string]string{"year": "1499"}, []types.IssueType{types.IssueBadYear}},
		{"doi url form accepted", "article", map[string]string{"doi": "https://doi.org/10.1109/CVPR.2016.90"}, nil},
		{"bad doi", "article", map[string]string{"doi": "CVPR.2016.90"}, []types.IssueType{types.IssueBadDOIFormat}},
		{"bad url", "article", map[string]string{"url": "www.example.org"}, []types.IssueType{types.IssueBadURLFormat}},
		{"single dash pages fine", "article", map[string]string{"pages": "1-10"}, nil},
		{"article number pages", "article", map[string]string{"pages": "e12--e14"}, nil},
		{"bad pages", "article", map[string]string{"pages": "see chapter 3"}, []types.IssueType{types.IssueSuspiciousMetadata}},
		{"upper title", "article", map[string]string{"title": "DEEP RESIDUAL LEARNING"}, []types.IssueType{types.IssueSuspiciousMetadata}},
		{"short venue", "article", map[string]string{"journal": "JM"}, []types.IssueType{types.IssueSuspiciousMetadata}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := map[string]string{}
			for k, val := range good {
				fields[k] = val
			}
			for k, val := range tt.modify {
				fields[k] = val
			}
			got := v.Check(types.NewEntry("k", tt.typ, fields))
			assert.Equal(t, tt.want, issueTypes(got))
		})
	}
}

func TestCheckSeverities(t *testing.T) {
	v := &Validator{CurrentYear: 2026}
	e := types.NewEntry("k", "misc", map[string]string{"title": "T", "url": "ftp://x", "year": "1"})
	for _, i := range v.Check(e) {
		switch i.Type {
		case types.IssueBadURLFormat:
			assert.Equal(t, types.SeverityWarning, i.Severity)
		case types.IssueBadYear:
			assert.Equal(t, types.SeverityError, i.Severity)
		}
	}
}

func TestTooManyAuthors(t *testing.T) {
	names := make([]string, 21)
	for i := range names {
		names[i] = "Author" + strings.Repeat("x", i)
	}
	e := types.NewEntry("k", "misc", map[string]string{"title": "Fine Title", "author": strings.Join(names, " and ")})
	issues := (&Validator{CurrentYear: 2026}).Check(e)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "many authors")
}

func TestRunFlagsDuplicateCitekeys(t *testing.T) {
	entries := []types.Entry{
		types.NewEntry("dup", "misc", map[string]string{"title": "One"}),
		types.NewEntry("dup", "misc", map[string]string{"title": "Two"}),
		types.NewEntry("solo", "misc", map[string]string{"title": "Three"}),
	}
	out := New().Run(entries)

	require.Len(t, out["dup"], 1)
	assert.Equal(t, types.IssueDuplicateCitekey, out["dup"][0].Type)
	assert.Equal(t, types.SeverityError, out["dup"][0].Severity)
	assert.Equal(t, 2, out["dup"][0].Details["count"])
	assert.Empty(t, out["solo"])
}
