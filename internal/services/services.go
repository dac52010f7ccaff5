package services

import (
	"context"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

// Directory is a searchable catalogue of podcast shows and their episodes.
type Directory interface {
	// SearchShows returns shows matching a free-text term, in the directory's ranking order.
	SearchShows(ctx context.Context, term string) ([]Feed, error)

	// ShowEpisodes returns the episodes the directory knows for a show, newest first.
	ShowEpisodes(ctx context.Context, showID int64) ([]Episode, error)

	// ShowByID returns a single show, or [shared.ErrShowNotFound] when the directory has no such show.
	ShowByID(ctx context.Context, showID int64) (Feed, error)

	// Name returns the name of the directory (e.g., "Podcast Index")
	Name() string
}

// Feed is a show as returned by the directory.
type Feed struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Image       string `json:"image"`
	Artwork     string `json:"artwork"`
}

// Episode is an episode as returned by the directory.
type Episode struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Link            string `json:"link"`
	Description     string `json:"description"`
	DatePublished   int64  `json:"datePublished"`
	EnclosureURL    string `json:"enclosureUrl"`
	EnclosureType   string `json:"enclosureType"`
	EnclosureLength int64  `json:"enclosureLength"`
	Image           string `json:"image"`
	FeedImage       string `json:"feedImage"`
	FeedID          int64  `json:"feedId"`
}

// ArtworkURL prefers the feed's artwork over its image.
func (f Feed) ArtworkURL() string {
	if f.Artwork != "" {
		return f.Artwork
	}
	return f.Image
}

// Record converts the feed into a library show.
func (f Feed) Record() models.Show {
	return models.Show{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		FeedURL:     f.URL,
		ImageURL:    f.ArtworkURL(),
	}
}

// Record converts the episode into a library episode that is not queued.
//
// The title is always present, even when empty; the other optional fields are absent when empty.
func (e Episode) Record() models.Episode {
	title := e.Title
	return models.Episode{
		ID:            e.ID,
		Title:         &title,
		Description:   models.Optional(e.Description),
		URL:           models.Optional(e.Link),
		ImageURL:      models.Optional(e.Image),
		MediaURL:      e.EnclosureURL,
		Queued:        0,
		DatePublished: e.DatePublished,
		ShowID:        e.FeedID,
	}
}

// Records converts a batch of directory episodes.
func Records(episodes []Episode) []models.Episode {
	out := make([]models.Episode, len(episodes))
	for i, e := range episodes {
		out[i] = e.Record()
	}
	return out
}

// Offline is a [Directory] that fails every lookup with Err. It stands in when no directory is configured.
type Offline struct {
	Err error
}

func (o Offline) SearchShows(ctx context.Context, term string) ([]Feed, error) { return nil, o.err() }

func (o Offline) ShowEpisodes(ctx context.Context, showID int64) ([]Episode, error) {
	return nil, o.err()
}

func (o Offline) ShowByID(ctx context.Context, showID int64) (Feed, error) { return Feed{}, o.err() }

func (o Offline) Name() string { return "offline" }

func (o Offline) err() error {
	if o.Err == nil {
		return shared.ErrServiceUnavailable
	}
	return o.Err
}
