package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/podx/internal/formatter"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/sahilm/fuzzy"
	"github.com/urfave/cli/v3"
)

// searchResult is a directory feed annotated with the library's subscription state.
type searchResult struct {
	services.Feed
	Subscribed bool `json:"subscribed"`
}

// showTitles implements [fuzzy.Source] over lowercased show titles.
type showTitles []models.Show

func (s showTitles) String(i int) string { return strings.ToLower(s[i].Title) }
func (s showTitles) Len() int            { return len(s) }

// Search queries the directory and marks the shows already in the library.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	directory, err := r.openDirectory()
	if err != nil {
		return err
	}
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	r.logger.Info("searching directory", "query", query, "directory", directory.Name())
	feeds, err := directory.SearchShows(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	subscribed, err := library.SubscribedShowIDs()
	if err != nil {
		return err
	}

	results := make([]searchResult, len(feeds))
	for i, f := range feeds {
		results[i] = searchResult{Feed: f, Subscribed: subscribed[f.ID]}
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%d shows matching %q", len(results), query))
	for _, res := range results {
		mark := " "
		if res.Subscribed {
			mark = "✓"
		}
		r.writePlain("%s %-10d %s\n", mark, res.ID, res.Title)
	}
	return nil
}

// Shows lists subscribed shows, optionally fuzzy matched against --match.
func (r *Runner) Shows(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	shows, err := library.LoadShows()
	if err != nil {
		return err
	}

	if match := strings.TrimSpace(cmd.String("match")); match != "" {
		matches := fuzzy.FindFrom(strings.ToLower(match), showTitles(shows))
		ranked := make([]models.Show, len(matches))
		for i, m := range matches {
			ranked[i] = shows[m.Index]
		}
		shows = ranked
	}

	if cmd.Bool("json") {
		return r.writeJSON(shows, true)
	}

	if len(shows) == 0 {
		r.writePlain("No shows. Run 'podx search <query>' and 'podx subscribe <id>' to add some.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("%d subscribed shows", len(shows)))
	for _, s := range shows {
		latest, err := library.Episodes().LatestPublished(s.ID)
		if err != nil {
			return err
		}
		date := "no episodes"
		if latest > 0 {
			date = "latest " + shared.FormatPublished(latest)
		}
		r.writePlain("%-10d %-40s %s\n", s.ID, shared.Truncate(s.Title, 40), date)
	}
	return nil
}

// Episodes prints or exports stored episodes: all of them, one show's or the queue.
func (r *Runner) Episodes(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	showID := cmd.Int64("show")
	export := &formatter.EpisodeExport{Title: "All episodes"}

	switch {
	case cmd.Bool("queue"):
		export.Title = "Queue"
		export.Episodes, err = library.LoadQueue()
	case showID != 0:
		show, err := library.Shows().Get(showID)
		if err != nil {
			return err
		}
		export.Title = show.Title
		export.Show = &show
		export.Episodes, err = library.LoadShowEpisodes(showID)
		if err != nil {
			return err
		}
	default:
		export.Episodes, err = library.LoadEpisodes()
	}
	if err != nil {
		return err
	}

	format := cmd.String("format")
	output := cmd.String("output")

	switch {
	case output == "":
		data, err := formatter.Export(export, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	case format == formatter.FormatMarkdown:
		result, err := formatter.WriteMarkdownExport(export, output, r.output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d episodes to %s\n", len(export.Episodes), result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
		return nil
	default:
		if err := formatter.WriteExport(export, format, output); err != nil {
			return err
		}
		r.writePlain("✓ Exported %d episodes to %s\n", len(export.Episodes), output)
		return nil
	}
}

// Subscribe stores a directory show with its current episodes, or removes it with --remove.
func (r *Runner) Subscribe(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"), "show id")
	if err != nil {
		return err
	}

	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	if cmd.Bool("remove") {
		show, err := library.Shows().Get(id)
		if err != nil {
			return err
		}
		if err := library.Unsubscribe(id); err != nil {
			return err
		}
		r.writePlain("✓ Unsubscribed from %s\n", show.Title)
		return nil
	}

	directory, err := r.openDirectory()
	if err != nil {
		return err
	}

	feed, err := directory.ShowByID(ctx, id)
	if err != nil {
		return err
	}
	episodes, err := directory.ShowEpisodes(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load episodes for %s: %w", feed.Title, err)
	}

	saved, err := library.Subscribe(feed.Record(), services.Records(episodes))
	if err != nil {
		return err
	}
	r.logger.Info("subscribed", "show", feed.ID, "episodes", saved)
	r.writePlain("✓ Subscribed to %s (%d episodes)\n", feed.Title, saved)
	return nil
}

// Queue adds a stored episode to the end of the queue, or removes it with --remove.
func (r *Runner) Queue(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("episode-id"), "episode id")
	if err != nil {
		return err
	}

	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	remove := cmd.Bool("remove")
	episode, err := library.SetQueued(id, !remove)
	if err != nil {
		return err
	}

	title := models.Deref(episode.Title)
	if remove {
		r.writePlain("✓ Removed %q from the queue\n", title)
	} else {
		r.writePlain("✓ Queued %q\n", title)
	}
	return nil
}

// Open hands a stored episode's web link, or its media URL when it has none, to the browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("episode-id"), "episode id")
	if err != nil {
		return err
	}

	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	episode, err := library.Episodes().Get(id)
	if err != nil {
		return err
	}

	link := models.Deref(episode.URL)
	if link == "" {
		link = episode.MediaURL
	}
	if link == "" {
		return fmt.Errorf("%w: episode %d", shared.ErrNoLink, id)
	}

	r.logger.Debug("opening link", "episode", id, "link", link)
	if err := r.opener(link); err != nil {
		return fmt.Errorf("failed to open %s: %w", link, err)
	}
	r.writePlain("Opened %s\n", link)
	return nil
}

func parseID(raw, what string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, what)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, what, raw)
	}
	return id, nil
}
