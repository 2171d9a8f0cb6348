package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcheck/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the provider response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMaintainer(func(m cache.Maintainer) error {
			n, err := m.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s cache: %d responses\n", cfg.Cache.Backend, n)
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMaintainer(func(m cache.Maintainer) error {
			if err := m.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("%s cache cleared\n", cfg.Cache.Backend)
			return nil
		})
	},
}

func withMaintainer(fn func(cache.Maintainer) error) error {
	c, err := cache.Open(cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()
	m, ok := c.(cache.Maintainer)
	if !ok {
		return fmt.Errorf("%s cache does not support maintenance", cfg.Cache.Backend)
	}
	return fn(m)
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
