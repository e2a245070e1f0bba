// Command csvana downloads tabular datasets, profiles them, loads them into
// SQLite and runs ad-hoc SQL over the result.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"csvana"
	"csvana/internal/config"
)

var (
	// Global flags
	configPath string
	dbPath     string
	chunkSize  int
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "csvana",
	Short: "csvana - chunked CSV profiling and SQL loading",
	Long: `csvana ingests large CSV datasets without exceeding memory.

It profiles a dataset from a bounded sample, streams the file into SQLite
in fixed-size chunks with per-chunk column type narrowing, and runs ad-hoc
SQL over the loaded tables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		if chunkSize > 0 {
			cfg.Ingest.ChunkSize = chunkSize
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// openAnalyzer opens the configured database and wraps it in an Analyzer.
// The caller closes the returned handle.
func openAnalyzer(opts ...csvana.Option) (*csvana.Analyzer, *sql.DB, error) {
	db, err := csvana.OpenDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]csvana.Option{
		csvana.WithChunkSize(cfg.Ingest.ChunkSize),
		csvana.WithLogger(logger),
	}, opts...)
	return csvana.NewAnalyzer(db, opts...), db, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "csvana.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "rows per chunk (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
