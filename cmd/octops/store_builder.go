package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yaegashi/octops/adapters/store/file"
	"github.com/yaegashi/octops/adapters/store/inmem"
	"github.com/yaegashi/octops/adapters/store/rdb"
	"github.com/yaegashi/octops/config/octcfg"
	"github.com/yaegashi/octops/domain"
)

// getDBURL extracts the db-url flag value from command hierarchy.
func getDBURL(cmd *cobra.Command) string {
	if v := flagString(cmd, "db-url"); v != "" {
		return v
	}
	return octcfg.DefaultDBURL(octcfg.ResolveDir(""))
}

// buildStore opens the state store selected by db-url.
func buildStore(cmd *cobra.Command) (domain.Store, error) {
	return openStore(getDBURL(cmd))
}

func openStore(dbURL string) (domain.Store, error) {
	switch {
	case strings.HasPrefix(dbURL, "file:"):
		path := strings.TrimPrefix(dbURL, "file:")
		if path == "" {
			return nil, fmt.Errorf("file path is required for file: URL")
		}
		s, err := file.Open(octcfg.ExpandPath(path, octcfg.ResolveDir("")))
		if err != nil {
			return nil, err
		}
		return s, nil

	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		s, err := rdb.Open(dbURL)
		if err != nil {
			return nil, err
		}
		return s, nil

	case dbURL == "mem:" || dbURL == "memory:":
		return inmem.NewStore(), nil

	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}
