// Package cli wires configuration, logging and the usecases into the two run
// modes: a linear batch load job and a long-lived query API server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/config"
	"github.com/propstack/propsearch/internal/logger"
	"github.com/propstack/propsearch/internal/version"
)

var (
	cfg config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "propsearch",
	Short: "Property listing search: bulk loader and query API",
	Long: `propsearch loads a property-listing dataset into an Elasticsearch index
and serves parameterized search-template queries against it.

  propsearch load    # provision the index + template, bulk load the dataset
  propsearch serve   # run the query API (parameter discovery, geocoding, search)

Configuration is read from config/<ENV>.yaml (ENV defaults to "local").`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env := config.GetEnv()

		var err error
		cfg, err = config.Load(env)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err = logger.New(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		log.Info("propsearch starting",
			zap.String("version", version.Version),
			zap.String("commit", version.Commit),
			zap.String("env", env),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(serveCmd)
}
