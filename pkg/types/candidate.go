// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Candidate is one metadata record returned by an online provider. Clients
// produce candidates with a normalized DOI; matching attaches Confidence on
// a copy and never mutates the provider's value.
type Candidate struct {
	Source     string   `json:"source" yaml:"source"`
	ID         string   `json:"id,omitempty" yaml:"id,omitempty"`
	DOI        string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year       string   `json:"year,omitempty" yaml:"year,omitempty"`
	Venue      string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	URL        string   `json:"url,omitempty" yaml:"url,omitempty"`
	Volume     string   `json:"volume,omitempty" yaml:"volume,omitempty"`
	Number     string   `json:"number,omitempty" yaml:"number,omitempty"`
	Pages      string   `json:"pages,omitempty" yaml:"pages,omitempty"`
	Version    string   `json:"version,omitempty" yaml:"version,omitempty"`
	Confidence float64  `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}
