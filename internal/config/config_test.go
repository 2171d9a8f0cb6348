// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcheck/internal/secrets"
	"github.com/pdiddy/bibcheck/pkg/types"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(t), nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
online:
  sources: [crossref, dblp]
  timeout: 5s
  workers: 4
fix:
  aggressive: true
cache:
  backend: badger
`), 0o644))
	t.Setenv("BIBCHECK_ONLINE_HIGH_THRESHOLD", "0.85")
	t.Setenv("BIBCHECK_AUTOFIX_SCOPE", "all")

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v, map[string]string{secrets.SemanticScholarAPIKey: "sk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"crossref", "dblp"}, cfg.Online.Sources)
	assert.Equal(t, 5*time.Second, cfg.Online.Timeout)
	assert.Equal(t, 4, cfg.Online.Workers)
	assert.Equal(t, 0.85, cfg.Online.HighThreshold)
	assert.True(t, cfg.Fix.Aggressive)
	assert.Equal(t, types.CacheBadger, cfg.Cache.Backend)
	assert.Equal(t, types.ScopeAll, cfg.AutoFix.Scope)
	assert.Equal(t, "sk", cfg.Online.SemanticScholarAPIKey)
}

func TestLoadCommaSeparatedSources(t *testing.T) {
	v := newViper(t)
	v.Set("online.sources", []string{"Crossref, s2"})
	cfg, err := Load(v, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"crossref", "s2"}, cfg.Online.Sources)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		field string
	}{
		{"unknown source", "online.sources", []string{"google"}, "Sources"},
		{"threshold above one", "online.high_threshold", 1.5, "HighThreshold"},
		{"mid above high", "fix.mid_threshold", 0.95, "MidThreshold"},
		{"zero workers", "online.workers", 0, "Workers"},
		{"unknown scope", "autofix.scope", "some", "Scope"},
		{"unknown backend", "cache.backend", "redis", "Backend"},
		{"unknown log level", "log.level", "trace", "Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.value)
			_, err := Load(v, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
