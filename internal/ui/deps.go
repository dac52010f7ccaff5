package ui

import (
	"github.com/desertthunder/podx/internal/models"
)

// Repository is the library the coordinator reads and writes. Every call blocks and is issued
// through the [Loader], never from the update loop.
type Repository interface {
	LoadShowCount() (int, error)
	LoadEpisodes() ([]models.Episode, error)
	LoadQueue() ([]models.Episode, error)
	SubscribedShowIDs() (map[int64]bool, error)
	Subscribe(show models.Show, episodes []models.Episode) (int, error)
	Unsubscribe(showID int64) error
	SetQueued(episodeID int64, queued bool) (models.Episode, error)
}

// Opener hands a web link to the desktop, e.g. [shared.OpenBrowser].
type Opener func(link string) error
