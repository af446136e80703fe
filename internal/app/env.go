package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/config"
	"github.com/five82/navigator/internal/logging"
	"github.com/five82/navigator/internal/session"
	"github.com/five82/navigator/internal/store"
	"github.com/five82/navigator/internal/store/memstore"
	"github.com/five82/navigator/internal/store/rest"
	"github.com/five82/navigator/internal/store/sqlstore"
)

// Options configure the Navigator application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/navigator/prefs.toml
	Verbose    bool
	LogStderr  bool // log to stderr instead of the log file (CLI use)
}

// Env is everything a command needs: config, logger, store and identity.
type Env struct {
	Config   config.Config
	Log      *zap.Logger
	Store    store.Client
	Sessions session.Provider
	Keyring  *session.Keyring // nil for local backends

	closers []func() error
}

// Bootstrap loads configuration and opens the configured store.
func Bootstrap(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logOpts := logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel, Verbose: opts.Verbose}
	if opts.LogStderr {
		logOpts.Path = ""
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	env := &Env{Config: cfg, Log: log}
	if err := env.openStore(ctx); err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Info("navigator started", zap.String("backend", cfg.Backend))
	return env, nil
}

// Session returns the current identity.
func (e *Env) Session(ctx context.Context) (session.Session, error) {
	return e.Sessions.Current(ctx)
}

// Workspace builds the collection controllers for the current user.
func (e *Env) Workspace(ctx context.Context) (*career.Workspace, error) {
	sess, err := e.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return career.NewWorkspace(e.Store, e.Log, sess.UserID), nil
}

// Migrate creates the SQL schema. Other backends have nothing to migrate.
func (e *Env) Migrate(ctx context.Context) error {
	sql, ok := e.Store.(*sqlstore.Store)
	if !ok {
		return fmt.Errorf("backend %s has no schema to migrate", e.Config.Backend)
	}
	return sql.Migrate(ctx)
}

// Close releases the store and flushes the logger.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	return errors.Join(errs...)
}

func (e *Env) openStore(ctx context.Context) error {
	cfg := e.Config
	switch cfg.Backend {
	case config.BackendREST:
		kr := session.NewKeyring()
		client, err := rest.NewClient(cfg.APIURL, cfg.APIKey, rest.WithToken(kr.Token))
		if err != nil {
			return fmt.Errorf("init rest client: %w", err)
		}
		e.Store, e.Sessions, e.Keyring = client, kr, kr

	case config.BackendSQLite, config.BackendPostgres:
		dialect, err := sqlstore.ParseDialect(cfg.Backend)
		if err != nil {
			return err
		}
		if dialect == sqlstore.SQLite {
			if err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0o755); err != nil {
				return fmt.Errorf("create database dir: %w", err)
			}
		}
		db, err := sqlstore.Open(ctx, dialect, cfg.DatabaseURL, career.Tables(), e.Log)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, db.Close)
		if dialect == sqlstore.SQLite {
			if err := db.Migrate(ctx); err != nil {
				_ = db.Close()
				return fmt.Errorf("migrate: %w", err)
			}
		}
		e.Store, e.Sessions = db, session.Static{UserID: cfg.UserID}

	case config.BackendMemory:
		e.Store, e.Sessions = memstore.New(career.Tables()...), session.Static{UserID: cfg.UserID}

	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return nil
}
