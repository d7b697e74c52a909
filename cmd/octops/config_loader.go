package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yaegashi/octops/config/octcfg"
)

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

// flagString returns the value of a flag found on cmd or its parents.
func flagString(cmd *cobra.Command, name string) string {
	if f := findFlag(cmd, name); f != nil {
		return f.Value.String()
	}
	return ""
}

// loadConfig reads, expands and validates config.yml for cmd.
func loadConfig(cmd *cobra.Command) (*octcfg.Config, error) {
	dir := octcfg.ResolveDir("")
	path := flagString(cmd, "config")
	if path == "" {
		path = octcfg.DefaultConfigPath(dir)
	}
	cfg, err := octcfg.Load(octcfg.ExpandPath(path, dir))
	if err != nil {
		return nil, err
	}
	cfg = cfg.Expand(dir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
