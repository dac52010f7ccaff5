package tasks

import (
	"fmt"

	"github.com/desertthunder/podx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadShows Phase = iota
	FetchEpisodes
	SaveEpisodes
	RefreshFailed
)

func (p Phase) String() string {
	switch p {
	case LoadShows:
		return "load_shows"
	case FetchEpisodes:
		return "fetch_episodes"
	case SaveEpisodes:
		return "save_episodes"
	case RefreshFailed:
		return "refresh_failed"
	default:
		return ""
	}
}

func loadShowsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadShows,
		Step:    1,
		Total:   1,
		Message: "Loading subscribed shows...",
	}
}

func fetchEpisodesUpdate(step, total int, show models.Show) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEpisodes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetched %s", step, total, show.Title),
		Data:    show,
	}
}

func saveEpisodesUpdate(step, total int, r ShowRefreshResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveEpisodes,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d new)", step, total, r.Title, r.Added),
		Data:    r,
	}
}

func refreshFailedUpdate(step, total int, r ShowRefreshResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, r.Title, r.Error),
		Data:    r,
	}
}
