package cli

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/fsrepo"
	"github.com/abdidvp/contentmod/internal/adapters/outbound/gitcommit"
	"github.com/abdidvp/contentmod/internal/adapters/outbound/journal"
	"github.com/abdidvp/contentmod/internal/adapters/outbound/runlock"
	"github.com/abdidvp/contentmod/internal/adapters/outbound/sqlrepo"
	"github.com/abdidvp/contentmod/internal/application"
	"github.com/abdidvp/contentmod/internal/domain"
)

// app carries what every command shares: the working directory and logger.
type app struct {
	dir     string
	verbose bool
	logger  *zap.Logger
	loader  domain.ConfigLoader
}

// runtime is a fully wired runner plus what must be released afterwards.
type runtime struct {
	cfg     domain.Config
	runner  *application.MigrationRunner
	journal domain.RunJournal
	close   func() error
}

func (a *app) absDir() (string, error) {
	abs, err := filepath.Abs(a.dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

func (a *app) loadConfig() (domain.Config, error) {
	dir, err := a.absDir()
	if err != nil {
		return domain.Config{}, err
	}
	return a.loader.Load(dir)
}

// initLogger builds the zap logger from the log section of the config. A
// config that fails to load falls back to defaults here; the command itself
// reports the error.
func (a *app) initLogger() error {
	logCfg := domain.DefaultConfig().Log
	if cfg, err := a.loadConfig(); err == nil {
		logCfg = cfg.Log
	}

	var zc zap.Config
	if logCfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if logCfg.Level != "" {
		if err := level.UnmarshalText([]byte(logCfg.Level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", logCfg.Level, err)
		}
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.logger = logger
	return nil
}

// openRuntime wires the configured backend, run lock and journal into a
// MigrationRunner.
func (a *app) openRuntime() (*runtime, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := a.absDir()
	if err != nil {
		return nil, err
	}

	var (
		backend domain.QueryBackend
		locker  domain.RunLocker
		closeFn = func() error { return nil }
	)

	switch cfg.Backend {
	case domain.BackendFS:
		opts := []fsrepo.Option{fsrepo.WithLogger(a.logger)}
		if cfg.Git.Commit {
			if !gitcommit.IsGitRepo(cfg.Root) {
				return nil, fmt.Errorf("git.commit is enabled but %s is not inside a git repository", cfg.Root)
			}
			opts = append(opts, fsrepo.WithCommitter(gitcommit.New(cfg.Git.AuthorName, cfg.Git.AuthorEmail)))
		}
		backend = fsrepo.New(cfg.Root, opts...)
		locker = runlock.ForRoot(cfg.Root)
	case domain.BackendSQLite:
		repo, err := sqlrepo.Open(cfg.DSN, a.logger)
		if err != nil {
			return nil, err
		}
		backend = repo
		locker = runlock.ForDSN(cfg.DSN)
		closeFn = repo.Close
	}

	var j domain.RunJournal
	if cfg.JournalEnabled() {
		j = journal.New(dir)
	}

	runner := application.NewMigrationRunner(
		application.NewContentQuery(backend, cfg.MaxResults),
		application.NewPropertyMutator(a.logger),
		locker,
		j,
		a.logger,
	)

	a.logger.Debug("runtime ready",
		zap.String("backend", string(cfg.Backend)),
		zap.Int("max_results", cfg.MaxResults),
		zap.Bool("journal", j != nil))

	return &runtime{cfg: cfg, runner: runner, journal: j, close: closeFn}, nil
}
