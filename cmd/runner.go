package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/services"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store, object storage and session are opened lazily from the configuration so commands that do not need
// them (setup, auth status) never touch the database.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	store      services.Store
	storage    services.ObjectStorage
	identity   services.Identity
	session    *services.SessionIdentity
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	notifier   tasks.Notifier
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      services.Store
	Storage    services.ObjectStorage
	Identity   services.Identity
	Session    *services.SessionIdentity
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Notifier   tasks.Notifier
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Notifier == nil {
		opts.Notifier = tasks.NewLogNotifier(opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		storage:    opts.Storage,
		identity:   opts.Identity,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		notifier:   opts.Notifier,
	}
}

// SetLogger replaces the runner's logger and the default notifier built on it.
func (r *Runner) SetLogger(logger *log.Logger) {
	if _, ok := r.notifier.(*tasks.LogNotifier); ok {
		r.notifier = tasks.NewLogNotifier(logger)
	}
	r.logger = logger
}

// Close releases the database opened by [Runner.Store], if any.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.store = nil
	return err
}

// before runs ahead of every command: it applies the log level flags and loads the configuration.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	switch {
	case cmd.Bool("verbose"):
		shared.SetLogLevel(r.logger, log.DebugLevel)
	case cmd.Bool("quiet"):
		shared.SetLogLevel(r.logger, log.ErrorLevel)
	}

	if r.config != nil {
		return ctx, nil
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}
	config, err := r.loadConfig()
	if err != nil {
		return ctx, err
	}
	r.config = config
	return ctx, nil
}

// loadConfig reads the config file when present, then layers .env and SANGEET_* variables on top.
//
// The merged result must pass [shared.Config.Validate].
func (r *Runner) loadConfig() (*shared.Config, error) {
	config := shared.DefaultConfig()
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			loaded, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", shared.ErrInvalidConfig, err)
			}
			config = loaded
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	if err := shared.LoadEnvFile(".env"); err != nil {
		r.logger.Warn("failed to load .env", "error", err)
	}
	if err := shared.ApplyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Config returns the loaded configuration, falling back to defaults.
func (r *Runner) Config() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// Store opens the SQLite store on first use and runs pending migrations.
func (r *Runner) Store() (services.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	cfg := r.Config().Database
	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	shared.ConfigureDatabase(db, cfg.Path, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.store = services.NewDataStore(db)
	r.logger.Debug("store opened", "path", cfg.Path)
	return r.store, nil
}

// Storage builds the configured object storage backend on first use.
func (r *Runner) Storage() (services.ObjectStorage, error) {
	if r.storage != nil {
		return r.storage, nil
	}

	cfg := r.Config().Storage
	switch cfg.Backend {
	case shared.StorageLocal:
		r.storage = services.NewLocalStorage(cfg.Dir, cfg.BaseURL)
	case shared.StorageHTTP:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("%w: storage.endpoint is required for the http backend", shared.ErrInvalidConfig)
		}
		r.storage = services.NewHTTPStorage(cfg.Endpoint, cfg.RateLimit, r.httpClient)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
	return r.storage, nil
}

// Session returns the session file backing the current identity.
func (r *Runner) Session() (*services.SessionIdentity, error) {
	if r.session != nil {
		return r.session, nil
	}
	path, err := r.Config().Identity.ResolveSessionPath()
	if err != nil {
		return nil, err
	}
	r.session = services.NewSessionIdentity(path)
	return r.session, nil
}

// CurrentUser resolves the signed-in user's id.
func (r *Runner) CurrentUser(ctx context.Context) (string, error) {
	if r.identity == nil {
		session, err := r.Session()
		if err != nil {
			return "", err
		}
		r.identity = session
	}

	return r.identity.CurrentUserID(ctx)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// printProgress writes progress updates until the channel is closed, then closes done.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progress {
		if update.Total > 0 {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		} else {
			r.writePlain("→ %s\n", update.Message)
		}
	}
}
