package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 2.0
)

// Library is the store refreshed shows are read from and new episodes written to.
type Library interface {
	LoadShows() ([]models.Show, error)
	AddEpisodes(showID int64, episodes []models.Episode) (int, error)
}

// RefreshOpts configures a [RefreshEngine].
type RefreshOpts struct {
	Workers   int     // Concurrent directory fetches (default: 4, max: 10)
	RateLimit float64 // Directory requests per second (default: 2)
	Logger    *log.Logger
}

// ShowRefreshResult is the outcome of refreshing one show.
type ShowRefreshResult struct {
	ShowID  int64
	Title   string
	Fetched int   // Episodes returned by the directory
	Added   int   // Episodes not stored before
	Error   error // Fetch or store failure
}

// RefreshResult summarises a refresh run.
type RefreshResult struct {
	RunID       string
	TotalShows  int
	Refreshed   int
	Failed      int
	NewEpisodes int
	Shows       []ShowRefreshResult
}

// RefreshEngine pulls the latest episodes of every subscribed show from the directory.
//
// Fetches run on a worker pool behind a shared rate limiter. Writes happen on the calling goroutine,
// one show at a time.
type RefreshEngine struct {
	directory services.Directory
	library   Library
	logger    *log.Logger
	workers   int
	limit     rate.Limit
}

// NewRefreshEngine creates a RefreshEngine, applying defaults to unset options.
func NewRefreshEngine(directory services.Directory, library Library, opts RefreshOpts) *RefreshEngine {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &RefreshEngine{
		directory: directory,
		library:   library,
		logger:    opts.Logger,
		workers:   opts.Workers,
		limit:     rate.Limit(opts.RateLimit),
	}
}

type fetchResult struct {
	show     models.Show
	episodes []services.Episode
	err      error
}

// sendProgress sends a progress update through the channel without blocking.
func (e *RefreshEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run refreshes every subscribed show. A show that fails is recorded in the result and does not stop the run.
//
// Run returns an error only when the shows cannot be listed or ctx ends during the run.
func (e *RefreshEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	if e.directory == nil {
		return nil, fmt.Errorf("%w: directory not initialized", shared.ErrServiceUnavailable)
	}

	result := &RefreshResult{RunID: shared.GenerateID()}
	logger := shared.WithLogger(e.logger, "run", result.RunID)

	e.sendProgress(progress, loadShowsUpdate())
	shows, err := e.library.LoadShows()
	if err != nil {
		return nil, fmt.Errorf("failed to load shows: %w", err)
	}

	total := len(shows)
	result.TotalShows = total
	result.Shows = make([]ShowRefreshResult, 0, total)
	if total == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(e.limit, 1)
	jobs := make(chan models.Show, total)
	results := make(chan fetchResult, total)

	var wg sync.WaitGroup
	for range min(e.workers, total) {
		wg.Add(1)
		go e.fetchWorker(ctx, &wg, limiter, jobs, results)
	}

	for _, show := range shows {
		jobs <- show
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		e.sendProgress(progress, fetchEpisodesUpdate(completed, total, res.show))

		sr := ShowRefreshResult{ShowID: res.show.ID, Title: res.show.Title, Fetched: len(res.episodes), Error: res.err}
		if res.err == nil {
			sr.Added, sr.Error = e.library.AddEpisodes(res.show.ID, services.Records(res.episodes))
		}

		if sr.Error != nil {
			result.Failed++
			logger.Warn("show refresh failed", "show", sr.ShowID, "error", sr.Error)
			e.sendProgress(progress, refreshFailedUpdate(completed, total, sr))
		} else {
			result.Refreshed++
			result.NewEpisodes += sr.Added
			logger.Debug("show refreshed", "show", sr.ShowID, "fetched", sr.Fetched, "added", sr.Added)
			e.sendProgress(progress, saveEpisodesUpdate(completed, total, sr))
		}
		result.Shows = append(result.Shows, sr)
	}

	return result, ctx.Err()
}

// fetchWorker fetches the episodes of shows from the jobs channel.
func (e *RefreshEngine) fetchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan models.Show,
	results chan<- fetchResult,
) {
	defer wg.Done()

	for show := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- fetchResult{show: show, err: err}
			continue
		}
		episodes, err := e.directory.ShowEpisodes(ctx, show.ID)
		results <- fetchResult{show: show, episodes: episodes, err: err}
	}
}
