package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/podx/internal/models"
)

// Library groups the show and episode repositories behind the operations the UI and CLI use.
type Library struct {
	db       *sql.DB
	shows    *ShowRepository
	episodes *EpisodeRepository
}

// NewLibrary creates a Library over db.
func NewLibrary(db *sql.DB) *Library {
	return &Library{
		db:       db,
		shows:    NewShowRepository(db),
		episodes: NewEpisodeRepository(db),
	}
}

// Shows exposes the underlying show repository.
func (l *Library) Shows() *ShowRepository { return l.shows }

// Episodes exposes the underlying episode repository.
func (l *Library) Episodes() *EpisodeRepository { return l.episodes }

// LoadShowCount returns the number of subscribed shows.
func (l *Library) LoadShowCount() (int, error) {
	return l.shows.Count()
}

// LoadShows returns the subscribed shows ordered by title.
func (l *Library) LoadShows() ([]models.Show, error) {
	return l.shows.List()
}

// LoadEpisodes returns every stored episode, newest first.
func (l *Library) LoadEpisodes() ([]models.Episode, error) {
	return l.episodes.List(nil)
}

// LoadQueue returns the queued episodes in queue order.
func (l *Library) LoadQueue() ([]models.Episode, error) {
	return l.episodes.List(map[string]any{"queued": true})
}

// LoadShowEpisodes returns one show's stored episodes, newest first.
func (l *Library) LoadShowEpisodes(showID int64) ([]models.Episode, error) {
	return l.episodes.List(map[string]any{"show_id": showID})
}

// SubscribedShowIDs returns the set of subscribed show ids.
func (l *Library) SubscribedShowIDs() (map[int64]bool, error) {
	ids, err := l.shows.IDs()
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Subscribe stores the show and its episodes in one transaction and returns how many episodes were stored.
//
// Episodes that cannot be persisted (no media URL) are skipped.
func (l *Library) Subscribe(show models.Show, episodes []models.Episode) (int, error) {
	saved := 0
	err := withTx(l.db, func(tx *sql.Tx) error {
		if err := l.shows.save(tx, show); err != nil {
			return err
		}
		n, err := l.saveEpisodes(tx, show.ID, episodes)
		saved = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to subscribe to show %d: %w", show.ID, err)
	}
	return saved, nil
}

// Unsubscribe removes the show and every episode stored for it.
func (l *Library) Unsubscribe(showID int64) error {
	return l.shows.Delete(showID)
}

// SetQueued adds the episode to the queue or removes it.
func (l *Library) SetQueued(episodeID int64, queued bool) (models.Episode, error) {
	return l.episodes.SetQueued(episodeID, queued)
}

// AddEpisodes stores newly fetched episodes for an already subscribed show and returns how many were new.
func (l *Library) AddEpisodes(showID int64, episodes []models.Episode) (int, error) {
	if _, err := l.shows.Get(showID); err != nil {
		return 0, err
	}

	existing := map[int64]bool{}
	current, err := l.LoadShowEpisodes(showID)
	if err != nil {
		return 0, err
	}
	for _, e := range current {
		existing[e.ID] = true
	}

	added := 0
	err = withTx(l.db, func(tx *sql.Tx) error {
		fresh := make([]models.Episode, 0, len(episodes))
		for _, e := range episodes {
			if !existing[e.ID] {
				fresh = append(fresh, e)
			}
		}
		n, err := l.saveEpisodes(tx, showID, fresh)
		added = n
		return err
	})
	return added, err
}

func (l *Library) saveEpisodes(tx *sql.Tx, showID int64, episodes []models.Episode) (int, error) {
	saved := 0
	for _, e := range episodes {
		e.ShowID = showID
		if e.Validate() != nil {
			continue
		}
		if err := l.episodes.save(tx, e); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}
