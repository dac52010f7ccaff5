package main

import (
	"context"
	"sync"

	"github.com/desertthunder/podx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// refreshSummary is the JSON form of a [tasks.RefreshResult].
type refreshSummary struct {
	RunID       string        `json:"run_id"`
	TotalShows  int           `json:"total_shows"`
	Refreshed   int           `json:"refreshed"`
	Failed      int           `json:"failed"`
	NewEpisodes int           `json:"new_episodes"`
	Shows       []showSummary `json:"shows"`
}

type showSummary struct {
	ShowID  int64  `json:"show_id"`
	Title   string `json:"title"`
	Fetched int    `json:"fetched"`
	Added   int    `json:"added"`
	Error   string `json:"error,omitempty"`
}

func summarize(result *tasks.RefreshResult) refreshSummary {
	s := refreshSummary{
		RunID:       result.RunID,
		TotalShows:  result.TotalShows,
		Refreshed:   result.Refreshed,
		Failed:      result.Failed,
		NewEpisodes: result.NewEpisodes,
		Shows:       make([]showSummary, len(result.Shows)),
	}
	for i, sr := range result.Shows {
		s.Shows[i] = showSummary{ShowID: sr.ShowID, Title: sr.Title, Fetched: sr.Fetched, Added: sr.Added}
		if sr.Error != nil {
			s.Shows[i].Error = sr.Error.Error()
		}
	}
	return s
}

// Refresh fetches the directory's episodes for every subscribed show and stores the new ones.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}
	directory, err := r.openDirectory()
	if err != nil {
		return err
	}

	opts := tasks.RefreshOpts{
		Workers:   r.config.Refresh.Workers,
		RateLimit: r.config.Refresh.RateLimit,
		Logger:    r.logger,
	}
	if w := cmd.Int("workers"); w > 0 {
		opts.Workers = w
	}
	if rl := cmd.Float("rate"); rl > 0 {
		opts.RateLimit = rl
	}

	asJSON := cmd.Bool("json")
	engine := tasks.NewRefreshEngine(directory, library, opts)

	progress := make(chan tasks.ProgressUpdate, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			if !asJSON {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(summarize(result), true)
	}

	r.writePlainln("Refreshed %d of %d shows, %d new episodes", result.Refreshed, result.TotalShows, result.NewEpisodes)
	if result.Failed > 0 {
		r.writePlain("%d shows failed:\n", result.Failed)
		for _, sr := range result.Shows {
			if sr.Error != nil {
				r.writePlain("  %s: %v\n", sr.Title, sr.Error)
			}
		}
	}
	return nil
}
