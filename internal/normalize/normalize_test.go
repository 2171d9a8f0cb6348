// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Deep Residual Learning", "deep residual learning"},
		{"{BERT}: Pre-training of Deep   Transformers.", "bert pretraining of deep transformers"},
		{`On \emph{Sparse} Models with $O(n^2)$ cost`, "on sparse models with cost"},
		{"Cats on Mat", "cats on mat"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Title(tt.in), "Title(%q)", tt.in)
	}
}

func TestAuthors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"and separator", "Alice Smith and Bob Lee", []string{"Alice Smith", "Bob Lee"}},
		{"case-insensitive and", "Smith, Alice AND Lee, Bob", []string{"Smith, Alice", "Lee, Bob"}},
		{"semicolon", "Alice Smith; Bob Lee", []string{"Alice Smith", "Bob Lee"}},
		{"comma kept", "Smith, Alice", []string{"Smith, Alice"}},
		{"and inside name is not a separator", "Alexander Andersen", []string{"Alexander Andersen"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authors(tt.in))
		})
	}
}

func TestDOI(t *testing.T) {
	assert.Equal(t, "", DOI("  "))
	assert.Equal(t, "10.1000/ABC", DOI("https://doi.org/10.1000/ABC"))
	assert.Equal(t, "10.1000/abc", DOI("http://dx.doi.org/10.1000/abc"))
	assert.Equal(t, "10.1000/abc", DOI("doi: 10.1000/abc "))
	assert.Equal(t, "10.48550/arxiv.2101.00001", CanonicalDOI("10.48550/ARXIV.2101.00001"))
	assert.Equal(t, "10.1000/ABC", CanonicalDOI("10.1000/ABC"))
	assert.True(t, SameDOI("10.1000/ABC", "https://doi.org/10.1000/abc"))
	assert.False(t, SameDOI("", ""))
}

func TestCleanVenue(t *testing.T) {
	assert.Equal(t, "computer vision and pattern recognition", CleanVenue("Proceedings of the IEEE Conference on Computer Vision and Pattern Recognition (CVPR) 2016"))
	assert.Equal(t, "neural computation", CleanVenue("Neural Computation"))
	assert.Equal(t, "", CleanVenue(""))
}

func TestSurname(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Alice Smith", "smith"},
		{"Smith, Alice", "smith"},
		{"van der Berg, Jan", "berg"},
		{"José Müller", "muller"},
		{"{\\'E}mile Zola", "zola"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Surname(tt.in), "Surname(%q)", tt.in)
	}
}

func TestContainsCJK(t *testing.T) {
	assert.True(t, ContainsCJK("基于深度学习的方法"))
	assert.False(t, ContainsCJK("Deep learning"))
	assert.False(t, ContainsCJK(""))
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("cats on mat", "cats on mat"))
	assert.Equal(t, 100, TokenSetRatio("mat on cats", "cats on mat"))
	assert.Equal(t, 100, TokenSetRatio("deep learning", "deep learning for vision"))
	assert.Equal(t, 0, TokenSetRatio("", "anything"))

	low := TokenSetRatio("completely different", "cats on mat")
	assert.Less(t, low, 50)

	partial := TokenSetRatio("deep residual learning for image recognition", "deep residual networks for image classification")
	assert.Greater(t, partial, 60)
	assert.Less(t, partial, 100)
}

func TestTitleSimilarity(t *testing.T) {
	assert.Equal(t, 0, TitleSimilarity("", "x"))
	assert.Equal(t, 100, TitleSimilarity("{Deep} Learning.", "deep learning"))
}
