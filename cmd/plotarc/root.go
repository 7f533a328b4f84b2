package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/plotarc/internal/config"
	"github.com/dotcommander/plotarc/internal/curve"
	"github.com/dotcommander/plotarc/internal/lexicon"
	"github.com/dotcommander/plotarc/internal/live"
	"github.com/dotcommander/plotarc/internal/logging"
	"github.com/dotcommander/plotarc/internal/report"
	"github.com/dotcommander/plotarc/internal/storage"
	"github.com/dotcommander/plotarc/internal/storage/sqlite"
)

var (
	configPath string
	verbose    bool
	quiet      bool
)

// app holds the services every subcommand shares
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	files    *storage.FileSystem
	lexicon  *lexicon.Service
	builder  *curve.Builder
	live     *live.Scorer
	archiver *report.Archiver
	closer   io.Closer
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "plotarc",
	Short: "Score scene tension and analyze the plot curve of a manuscript",
	Long: `plotarc scores the dramatic tension of each scene in a manuscript from a
user-editable vocabulary, builds the manuscript's tension curve and reports
pacing diagnostics and suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err := setupLogging(cfg.Log)
		if err != nil {
			return err
		}
		if skipsServices(cmd) {
			current = &app{cfg: cfg, logger: logger}
			return nil
		}
		current, err = newApp(cmd.Context(), cfg, logger)
		return err
	},
}

// skipsServices reports whether cmd only needs the configuration
func skipsServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

func setupLogging(lc config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return logging.Setup(level, lc.Format, os.Stderr), nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	a := &app{
		cfg:    cfg,
		logger: logger,
		files:  storage.NewFileSystem(cfg.Storage.DataDir),
	}

	var repo lexicon.Repository
	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := sqlite.Open(filepath.Join(cfg.Storage.DataDir, sqlite.FileName))
		if err != nil {
			return nil, err
		}
		repo, a.closer = db, db
	default:
		repo = storage.NewLexiconFile(a.files)
	}

	store := lexicon.NewStore(nil)
	a.lexicon = lexicon.NewService(store, repo)
	if err := a.lexicon.Load(ctx); err != nil {
		if a.closer != nil {
			_ = a.closer.Close()
		}
		return nil, err
	}

	a.builder = curve.NewBuilder(store, curve.WithWorkers(cfg.Analysis.Workers))
	a.live = live.NewScorer(a.builder,
		live.WithRateLimit(cfg.Live.RatePerSecond, cfg.Live.Burst),
		live.WithLogger(logger),
	)
	a.archiver = report.NewArchiver(a.files, storage.ParseSessionNaming(cfg.Storage.SessionNaming))

	logger.Debug("Services ready",
		"backend", cfg.Storage.Backend,
		"data_dir", cfg.Storage.DataDir,
		"workers", cfg.Analysis.Workers,
	)
	return a, nil
}

func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

// closeApp releases the lexicon database, if one was opened
func closeApp() {
	if current == nil || current.closer == nil {
		return
	}
	if err := current.closer.Close(); err != nil {
		current.logger.Warn("Failed to close database", "error", err)
	}
	current = nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/plotarc/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
}
