package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eslabs/cmdata/internal/adapters/bboltcache"
	"github.com/eslabs/cmdata/internal/app"
	"github.com/eslabs/cmdata/internal/config"
	"github.com/eslabs/cmdata/internal/ports"
	"github.com/eslabs/cmdata/taxonomy"
)

var rootCmd = &cobra.Command{
	Use:   "cmdata",
	Short: "Energy-statistics taxonomy tables and unit conversion",
	Long:  "Query and validate label tables, code hierarchies, aggregation lattices, and unit conversions for IEA and NBS energy statistics.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(labelsetsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(rollupCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads the environment configuration or exits.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openCatalog loads the embedded taxonomies plus any configured overlay
// directory, and validates cross-file references. The returned cleanup
// closes the cache if one was opened.
func openCatalog(cfg *config.Config) (*app.Catalog, func(), error) {
	var cache ports.Cache
	cleanup := func() {}
	if cfg.CachePath != "" {
		store, err := bboltcache.NewStore(cfg.CachePath)
		if err != nil {
			// The cache is an optimization; a locked or damaged cache file
			// must not block queries.
			fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
		} else {
			cache = store
			cleanup = func() { store.Close() }
		}
	}

	catalog := app.NewCatalog()
	if err := catalog.AddFS(taxonomy.FS, ".", cache); err != nil {
		cleanup()
		return nil, nil, err
	}
	if cfg.DataDir != "" {
		if err := catalog.AddDir(cfg.DataDir, cache); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	if err := catalog.Validate(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return catalog, cleanup, nil
}
