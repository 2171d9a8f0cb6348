// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/bibcheck/pkg/types"
)

var catsEntry = types.NewEntry("cats", "article", map[string]string{
	"title":  "Cats on Mat",
	"author": "Alice Smith and Bob Lee",
	"year":   "2020",
})

func TestScoreDOIEquality(t *testing.T) {
	e := types.NewEntry("k", "article", map[string]string{"doi": "https://doi.org/10.1000/ABC", "title": "Something"})
	c := types.Candidate{DOI: "10.1000/abc", Title: "Entirely unrelated"}

	r := Score(e, c)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, Components{Title: 1, Authors: 1, Year: 1, Venue: 1, DOIMatch: 1}, r.Components)
}

func TestScoreComponents(t *testing.T) {
	tests := []struct {
		name string
		cand types.Candidate
		want float64
	}{
		{"exact title authors year", types.Candidate{Title: "Cats on Mat", Authors: []string{"Alice Smith", "Bob Lee"}, Year: "2020"}, 0.95},
		{"different author", types.Candidate{Title: "Cats on Mat", Authors: []string{"Charlie Brown"}, Year: "2020"}, 0.65},
		{"year off by one", types.Candidate{Title: "Cats on Mat", Authors: []string{"Alice Smith", "Bob Lee"}, Year: "2021"}, 0.93},
		{"year off by two", types.Candidate{Title: "Cats on Mat", Authors: []string{"Smith, Alice", "Lee, Bob"}, Year: "2022"}, 0.90},
		{"half the authors", types.Candidate{Title: "Cats on Mat", Authors: []string{"Alice Smith"}, Year: "2020"}, 0.80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(catsEntry, tt.cand).Confidence, 1e-9)
		})
	}
}

func TestScoreLowForUnrelated(t *testing.T) {
	r := Score(catsEntry, types.Candidate{Title: "Completely Different", Authors: []string{"Zed Zed"}, Year: "1999"})
	assert.Less(t, r.Confidence, 0.6)
}

func TestScoreVenue(t *testing.T) {
	e := catsEntry.Clone()
	e.Set("journal", "Journal of Felines")
	r := Score(e, types.Candidate{Title: "Cats on Mat", Authors: []string{"Alice Smith", "Bob Lee"}, Year: "2020", Venue: "Journal of Felines"})
	assert.InDelta(t, 1.0, r.Confidence, 1e-9)
	assert.Equal(t, 1.0, r.Components.Venue)
	assert.Equal(t, 0.0, r.Components.DOIMatch)
}

func TestYearScore(t *testing.T) {
	assert.Equal(t, 0.0, yearScore("", "2020"))
	assert.Equal(t, 0.0, yearScore("n.d.", "2020"))
	assert.Equal(t, 0.0, yearScore("2010", "2020"))
}

func TestAuthorScoreFoldsDiacritics(t *testing.T) {
	assert.Equal(t, 1.0, authorScore("José Müller", []string{"Jose Muller"}))
	assert.Equal(t, 0.0, authorScore("", []string{"A B"}))
}
