// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/bibcheck/pkg/types"
)

func entry(typ string, fields map[string]string) types.Entry {
	return types.NewEntry("k", typ, fields)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		entry types.Entry
		want  Kind
	}{
		{"doi wins over everything", entry("article", map[string]string{"doi": "10.1/x", "eprint": "2101.00001"}), KindScholarlyDOI},
		{"eprint", entry("article", map[string]string{"eprint": "2101.00001v2"}), KindPreprintArxiv},
		{"arxivid field", entry("misc", map[string]string{"arxivid": "hep-th/9901001"}), KindPreprintArxiv},
		{"arxiv url", entry("misc", map[string]string{"url": "https://arxiv.org/pdf/2101.00001.pdf"}), KindPreprintArxiv},
		{"github url", entry("misc", map[string]string{"url": "https://github.com/Acme/Widget.git"}), KindSoftwareGitHub},
		{"github in note", entry("software", map[string]string{"note": "see https://github.com/acme/widget"}), KindSoftwareGitHub},
		{"web resource", entry("online", map[string]string{"url": "https://example.com/post"}), KindWebGeneric},
		{"techreport with url", entry("techreport", map[string]string{"url": "https://example.com/tr.pdf"}), KindWebGeneric},
		{"misc without url", entry("misc", map[string]string{"title": "x"}), KindUnknown},
		{"inproceedings", entry("inproceedings", map[string]string{"title": "x"}), KindScholarlyCSLike},
		{"booktitle", entry("incollection", map[string]string{"booktitle": "B"}), KindScholarlyCSLike},
		{"journal", entry("article", map[string]string{"journal": "J"}), KindScholarlyCSLike},
		{"bare book", entry("book", map[string]string{"title": "x"}), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.entry))
		})
	}
}

func TestArxivID(t *testing.T) {
	tests := []struct {
		fields map[string]string
		want   string
	}{
		{map[string]string{"eprint": "arXiv:2101.00001v3"}, "2101.00001v3"},
		{map[string]string{"eprint": "cs/0101001"}, "cs/0101001"},
		{map[string]string{"eprint": "hep-th/9901001"}, "hep-th/9901001"},
		{map[string]string{"url": "https://arxiv.org/abs/2101.00001?context=cs"}, "2101.00001"},
		{map[string]string{"url": "http://arxiv.org/pdf/2101.00001v1.pdf"}, "2101.00001v1"},
		{map[string]string{"url": "https://example.com"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ArxivID(entry("misc", tt.fields)), "%v", tt.fields)
	}
}

func TestStripVersion(t *testing.T) {
	assert.Equal(t, "2101.00001", StripVersion("2101.00001v3"))
	assert.Equal(t, "2101.00001", StripVersion("2101.00001"))
}

func TestGitHubRepo(t *testing.T) {
	assert.Equal(t, "acme/widget", GitHubRepo(entry("misc", map[string]string{"howpublished": `\url{https://github.com/Acme/Widget}`})))
	assert.Equal(t, "", GitHubRepo(entry("misc", map[string]string{"url": "https://gitlab.com/a/b"})))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "preprint_arxiv", KindPreprintArxiv.String())
	b, err := KindScholarlyCSLike.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "scholarly_cslike", string(b))
}
