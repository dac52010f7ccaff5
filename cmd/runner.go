package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/cache"
	"github.com/desertthunder/podx/internal/repositories"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, the response cache and the directory client are opened on first use so that
// commands which need none of them (setup config, help) work without credentials.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	library    *repositories.Library
	directory  services.Directory
	index      *services.PodcastIndex
	cache      *cache.Store
	opener     ui.Opener
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Library    *repositories.Library
	Directory  services.Directory
	Opener     ui.Opener
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		library:    opts.Library,
		directory:  opts.Directory,
		opener:     opts.Opener,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// Init loads the configuration named by --config before any command runs.
//
// A missing file is not an error: defaults apply and `podx setup config` can create one later.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}
	r.config.ApplyEnv()

	level := r.config.Logging.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	shared.SetLogLevel(r.logger, shared.ParseLevel(level))
	return ctx, nil
}

// Close releases whatever the commands opened.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	var errs []error
	if r.index != nil {
		if r.directory == r.index {
			r.directory = nil
		}
		r.index = nil
	}
	if r.cache != nil {
		errs = append(errs, r.cache.Close())
		r.cache = nil
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db = nil
		r.library = nil
	}
	return errors.Join(errs...)
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) openLibrary() (*repositories.Library, error) {
	if r.library != nil {
		return r.library, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.library = repositories.NewLibrary(db)
	return r.library, nil
}

func (r *Runner) openCache() (*cache.Store, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	ttl := time.Duration(r.config.Cache.TTLMinutes) * time.Minute
	store, err := cache.Open(r.config.Cache.Path, ttl)
	if err != nil {
		return nil, err
	}
	r.cache = store
	return store, nil
}

func (r *Runner) openIndex() (*services.PodcastIndex, error) {
	if r.index != nil {
		return r.index, nil
	}

	cfg := r.config.PodcastIndex
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: set podcastindex.api_key and podcastindex.api_secret in %s, or %s and %s",
			shared.ErrMissingCredentials, r.configPath, shared.EnvAPIKey, shared.EnvAPISecret)
	}

	store, err := r.openCache()
	if err != nil {
		return nil, err
	}

	client := r.httpClient
	if client == http.DefaultClient && cfg.TimeoutSeconds > 0 {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}

	r.index = services.NewPodcastIndex(services.PodcastIndexOpts{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		UserAgent:  cfg.UserAgent,
		MaxResults: cfg.MaxResults,
		HTTPClient: client,
		Cache:      store,
		Logger:     shared.WithLogger(r.logger, "directory", "podcastindex"),
	})
	return r.index, nil
}

func (r *Runner) openDirectory() (services.Directory, error) {
	if r.directory != nil {
		return r.directory, nil
	}

	index, err := r.openIndex()
	if err != nil {
		return nil, err
	}
	r.directory = index
	return index, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, showsCommand, episodesCommand, subscribeCommand,
		queueCommand, openCommand, refreshCommand, cacheCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
