// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/bibcheck/pkg/types"
)

func TestCompareMetadata(t *testing.T) {
	base := map[string]string{
		"title":   "Deep Residual Learning for Image Recognition",
		"author":  "He, Kaiming and Zhang, Xiangyu",
		"year":    "2016",
		"journal": "Proceedings of the IEEE Conference on Computer Vision and Pattern Recognition",
	}
	good := types.Candidate{
		Title:   "Deep Residual Learning for Image Recognition",
		Authors: []string{"Kaiming He", "Xiangyu Zhang"},
		Year:    "2016",
		Venue:   "2016 IEEE Conference on Computer Vision and Pattern Recognition (CVPR)",
	}

	tests := []struct {
		name   string
		modify func(f map[string]string, c *types.Candidate)
		want   map[types.IssueType]types.Severity
	}{
		{"all agree", func(map[string]string, *types.Candidate) {}, map[types.IssueType]types.Severity{}},
		{"title far off", func(_ map[string]string, c *types.Candidate) { c.Title = "Something else entirely" },
			map[types.IssueType]types.Severity{types.IssueTitleMismatch: types.SeverityError}},
		{"year off by one", func(_ map[string]string, c *types.Candidate) { c.Year = "2015" },
			map[types.IssueType]types.Severity{types.IssueYearMismatch: types.SeverityWarning}},
		{"year off by three", func(_ map[string]string, c *types.Candidate) { c.Year = "2019" },
			map[types.IssueType]types.Severity{types.IssueYearMismatch: types.SeverityError}},
		{"non-numeric year", func(f map[string]string, _ *types.Candidate) { f["year"] = "in press" },
			map[types.IssueType]types.Severity{types.IssueYearMismatch: types.SeverityError}},
		{"first author differs", func(_ map[string]string, c *types.Candidate) { c.Authors = []string{"Xiangyu Zhang", "Kaiming He"} },
			map[types.IssueType]types.Severity{types.IssueAuthorMismatch: types.SeverityError}},
		{"author count differs", func(_ map[string]string, c *types.Candidate) {
			c.Authors = []string{"Kaiming He", "B", "C", "D", "E", "F"}
		}, map[types.IssueType]types.Severity{types.IssueAuthorMismatch: types.SeverityError}},
		{"venue differs", func(_ map[string]string, c *types.Candidate) { c.Venue = "Neural Computation" },
			map[types.IssueType]types.Severity{types.IssueVenueMismatch: types.SeverityWarning}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := map[string]string{}
			for k, v := range base {
				f[k] = v
			}
			c := good
			c.Authors = append([]string(nil), good.Authors...)
			tt.modify(f, &c)

			got := issueTypes(compareMetadata(types.NewEntry("k", "article", f), c))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareModerateTitleIsWarning(t *testing.T) {
	e := types.NewEntry("k", "article", map[string]string{"title": "Attention is all you need"})
	c := types.Candidate{Title: "Attention is what you want"}
	issues := compareMetadata(e, c)
	sim := issues[0].Details["similarity"].(int)
	assert.GreaterOrEqual(t, sim, 70)
	assert.Less(t, sim, 85)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)
}
