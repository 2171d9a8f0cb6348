// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config decodes the layered viper configuration (defaults, config
// file, BIBCHECK_* environment, flags) into types.Config and validates it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcheck/internal/secrets"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// EnvPrefix is prepended to every environment override, e.g.
// BIBCHECK_ONLINE_OFFLINE=true.
const EnvPrefix = "BIBCHECK"

var validate = validator.New(validator.WithRequiredStructEnabled())

// SetDefaults registers the built-in defaults and environment binding on
// v. Keys are dotted paths such as "online.high_threshold".
func SetDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	defaults := map[string]any{
		"online.timeout":                  d.Online.Timeout,
		"online.user_agent":               d.Online.UserAgent,
		"online.offline":                  d.Online.Offline,
		"online.sources":                  d.Online.Sources,
		"online.enable_arxiv":             d.Online.EnableArxiv,
		"online.enable_citation_cff":      d.Online.EnableCitationCFF,
		"online.enable_dblp":              d.Online.EnableDBLP,
		"online.high_threshold":           d.Online.HighThreshold,
		"online.mid_threshold":            d.Online.MidThreshold,
		"online.rate_interval":            d.Online.RateInterval,
		"online.workers":                  d.Online.Workers,
		"online.semantic_scholar_api_key": "",
		"online.openalex_email":           "",
		"online.crossref_mailto":          "",
		"cache.backend":                   string(d.Cache.Backend),
		"cache.path":                      d.Cache.Path,
		"fix.aggressive":                  d.Fix.Aggressive,
		"fix.high_threshold":              d.Fix.HighThreshold,
		"fix.mid_threshold":               d.Fix.MidThreshold,
		"autofix.min_confidence":          d.AutoFix.MinConfidence,
		"autofix.scope":                   string(d.AutoFix.Scope),
		"autofix.latex_apostrophe":        d.AutoFix.LatexApostrophe,
		"log.level":                       d.Log.Level,
		"log.format":                      d.Log.Format,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config, fills provider credentials from secrets
// and validates the result.
func Load(v *viper.Viper, secretValues map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Online.Sources = splitSources(cfg.Online.Sources)
	secrets.Apply(&cfg.Online, secretValues)

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations, reporting every violated field.
func Validate(cfg types.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// splitSources accepts both list values and a single comma-separated
// string, as given on the command line or in BIBCHECK_ONLINE_SOURCES.
func splitSources(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
