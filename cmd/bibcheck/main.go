// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bibcheck CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcheck/internal/config"
	"github.com/pdiddy/bibcheck/internal/logging"
	"github.com/pdiddy/bibcheck/internal/secrets"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the decoded configuration, loaded before any subcommand runs.
	cfg    types.Config
	logger *slog.Logger
)

// rootCmd is the base command for the bibcheck CLI.
var rootCmd = &cobra.Command{
	Use:   "bibcheck",
	Short: "Verify BibTeX entries against online metadata and fix them",
	Long: `bibcheck reconciles a BibTeX file against authoritative metadata providers
(Crossref, OpenAlex, Semantic Scholar, DBLP, arXiv, CITATION.cff), scores how
confidently each entry matches, and proposes field-level corrections.

check reports problems, fix applies corrections above a confidence threshold,
and autofix applies in-scope corrections for unattended runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		s, err := secrets.Load(secrets.DefaultDir, nil)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		cfg, err = config.Load(viper.GetViper(), s)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log, os.Stderr)
		return err
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	d := types.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: "+strings.Join(defaultConfigFiles(), " or ")+")")
	pf.Bool("offline", false, "do not contact any online source")
	pf.StringSlice("sources", d.Online.Sources, "DOI and search providers in priority order (crossref,openalex,s2,dblp)")
	pf.Bool("enable-dblp", false, "also search DBLP for conference papers")
	pf.Int("workers", d.Online.Workers, "entries resolved concurrently")
	pf.String("user-agent", d.Online.UserAgent, "HTTP User-Agent, preferably with a contact address")
	pf.Duration("timeout", d.Online.Timeout, "per-request HTTP timeout")
	pf.String("cache-backend", string(d.Cache.Backend), "response cache backend (sqlite, badger, memory)")
	pf.String("cache-path", "", "cache file or directory (default under ~/.cache/bibcheck)")
	pf.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	pf.String("log-format", d.Log.Format, "log format (text, json)")
	pf.String("outdir", "out", "directory for reports and fixed files")
	pf.Int("max-entries", 0, "check only the first N entries (0 = all)")
	pf.String("metrics-file", "", "write Prometheus metrics to this file after the run")

	bindFlags(rootCmd, true, map[string]string{
		"online.offline":     "offline",
		"online.sources":     "sources",
		"online.enable_dblp": "enable-dblp",
		"online.workers":     "workers",
		"online.user_agent":  "user-agent",
		"online.timeout":     "timeout",
		"cache.backend":      "cache-backend",
		"cache.path":         "cache-path",
		"log.level":          "log-level",
		"log.format":         "log-format",
	})
}

// bindFlags binds config keys to the named flags of cmd so that a flag set
// on the command line overrides the config file and environment.
func bindFlags(cmd *cobra.Command, persistent bool, keys map[string]string) {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	for key, name := range keys {
		cobra.CheckErr(viper.BindPFlag(key, fs.Lookup(name)))
	}
}

const configName = "bibcheck"

// configDirs are searched in order for bibcheck.yaml when --config is unset.
var configDirs = []string{".", "~/.config/bibcheck"}

func defaultConfigFiles() []string {
	files := make([]string, 0, len(configDirs))
	for _, dir := range configDirs {
		files = append(files, dir+"/"+configName+".yaml")
	}
	return files
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		home, _ := os.UserHomeDir()
		for _, dir := range configDirs {
			if rest, ok := strings.CutPrefix(dir, "~"); ok {
				if home == "" {
					continue
				}
				dir = filepath.Join(home, rest)
			}
			viper.AddConfigPath(dir)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
