package types

import "time"

// HTTPConfig holds shared HTTP settings for the online providers.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is sent with every provider request (e.g. "bibcheck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
}

// OnlineConfig controls provider resolution.
type OnlineConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Offline skips every network call; entries are reported unchecked.
	Offline bool `json:"offline" yaml:"offline" mapstructure:"offline"`

	// Sources lists the DOI lookup and search providers in priority order.
	Sources []string `json:"sources" yaml:"sources" mapstructure:"sources" validate:"dive,oneof=crossref openalex s2 dblp"`

	EnableArxiv       bool `json:"enable_arxiv" yaml:"enable_arxiv" mapstructure:"enable_arxiv"`
	EnableCitationCFF bool `json:"enable_citation_cff" yaml:"enable_citation_cff" mapstructure:"enable_citation_cff"`
	EnableDBLP        bool `json:"enable_dblp" yaml:"enable_dblp" mapstructure:"enable_dblp"`

	// HighThreshold and MidThreshold gate search candidates (default 0.8 / 0.6).
	HighThreshold float64 `json:"high_threshold" yaml:"high_threshold" mapstructure:"high_threshold" validate:"gte=0,lte=1"`
	MidThreshold  float64 `json:"mid_threshold" yaml:"mid_threshold" mapstructure:"mid_threshold" validate:"gte=0,lte=1,ltefield=HighThreshold"`

	// RateInterval is the minimum gap between two calls to the same provider (default 1s).
	RateInterval time.Duration `json:"rate_interval" yaml:"rate_interval" mapstructure:"rate_interval" validate:"gte=0"`

	// Workers is the number of entries resolved concurrently (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers" validate:"gte=1"`

	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`
	OpenAlexEmail         string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`
	CrossrefMailto        string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty" mapstructure:"crossref_mailto"`
}

// CacheBackend names a response cache implementation.
type CacheBackend string

const (
	CacheSQLite CacheBackend = "sqlite"
	CacheBadger CacheBackend = "badger"
	CacheMemory CacheBackend = "memory"
)

// CacheConfig selects and locates the response cache.
type CacheConfig struct {
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend" validate:"oneof=sqlite badger memory"`

	// Path is the database file (sqlite) or directory (badger). Empty uses
	// ~/.cache/bibcheck/.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// FixConfig holds the applier thresholds.
type FixConfig struct {
	// Aggressive also applies actions between MidThreshold and HighThreshold.
	Aggressive bool `json:"aggressive" yaml:"aggressive" mapstructure:"aggressive"`

	HighThreshold float64 `json:"high_threshold" yaml:"high_threshold" mapstructure:"high_threshold" validate:"gte=0,lte=1"`
	MidThreshold  float64 `json:"mid_threshold" yaml:"mid_threshold" mapstructure:"mid_threshold" validate:"gte=0,lte=1,ltefield=HighThreshold"`
}

// AutoFixScope selects which fields autofix may touch.
type AutoFixScope string

const (
	ScopeHigh AutoFixScope = "high"
	ScopeAll  AutoFixScope = "all"
)

// AutoFixConfig holds the autofix policy.
type AutoFixConfig struct {
	MinConfidence float64      `json:"min_confidence" yaml:"min_confidence" mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	Scope         AutoFixScope `json:"scope" yaml:"scope" mapstructure:"scope" validate:"oneof=high all"`

	// LatexApostrophe writes apostrophes in author names as {\textquoteright}.
	LatexApostrophe bool `json:"latex_apostrophe" yaml:"latex_apostrophe" mapstructure:"latex_apostrophe"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

// Config is the full bibcheck configuration.
type Config struct {
	Online  OnlineConfig  `json:"online" yaml:"online" mapstructure:"online"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Fix     FixConfig     `json:"fix" yaml:"fix" mapstructure:"fix"`
	AutoFix AutoFixConfig `json:"autofix" yaml:"autofix" mapstructure:"autofix"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Online: OnlineConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   20 * time.Second,
				UserAgent: "bibcheck/0.1 (mailto:unknown@example.com)",
			},
			Sources:           []string{"crossref", "openalex", "s2"},
			EnableArxiv:       true,
			EnableCitationCFF: true,
			HighThreshold:     0.8,
			MidThreshold:      0.6,
			RateInterval:      time.Second,
			Workers:           1,
		},
		Cache: CacheConfig{Backend: CacheSQLite},
		Fix: FixConfig{
			HighThreshold: 0.9,
			MidThreshold:  0.8,
		},
		AutoFix: AutoFixConfig{
			MinConfidence: 0.85,
			Scope:         ScopeHigh,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}
