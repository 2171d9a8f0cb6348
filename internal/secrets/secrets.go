// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key name and the
// trimmed contents are the value.
//
// Recognized keys: semantic-scholar-api-key, openalex-email, crossref-mailto.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// DefaultDir is where secrets are read from unless overridden.
const DefaultDir = ".secrets"

// Key file names.
const (
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	OpenAlexEmail         = "openalex-email"
	CrossrefMailto        = "crossref-mailto"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are
// logged and skipped; a nil logger discards the warning.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Apply fills provider credentials that the configuration leaves empty.
// Values already set by the config file, environment or flags win.
func Apply(cfg *types.OnlineConfig, secrets map[string]string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = secrets[key]
		}
	}
	fill(&cfg.SemanticScholarAPIKey, SemanticScholarAPIKey)
	fill(&cfg.OpenAlexEmail, OpenAlexEmail)
	fill(&cfg.CrossrefMailto, CrossrefMailto)
}
