package testing

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
)

// MockDirectory is a test double for [services.Directory] with canned results and call recording.
type MockDirectory struct {
	mu sync.Mutex

	Feeds       []services.Feed
	Episodes    map[int64][]services.Episode
	SearchErr   error
	EpisodesErr error

	Searches     []string
	EpisodeCalls []int64
}

func (m *MockDirectory) SearchShows(ctx context.Context, term string) ([]services.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches = append(m.Searches, term)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return slices.Clone(m.Feeds), nil
}

func (m *MockDirectory) ShowEpisodes(ctx context.Context, showID int64) ([]services.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EpisodeCalls = append(m.EpisodeCalls, showID)
	if m.EpisodesErr != nil {
		return nil, m.EpisodesErr
	}
	return slices.Clone(m.Episodes[showID]), nil
}

// ShowByID finds the show among Feeds.
func (m *MockDirectory) ShowByID(ctx context.Context, showID int64) (services.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.Feeds {
		if f.ID == showID {
			return f, nil
		}
	}
	return services.Feed{}, fmt.Errorf("%w: %d", shared.ErrShowNotFound, showID)
}

func (m *MockDirectory) Name() string { return "mock" }

// SearchCount returns how many searches have been issued.
func (m *MockDirectory) SearchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Searches)
}

// MockLibrary is an in-memory stand-in for the sqlite library with per-operation call counts and injectable errors.
type MockLibrary struct {
	mu sync.Mutex

	shows    map[int64]models.Show
	episodes map[int64]models.Episode

	// CountOverride, when non-nil, is returned by LoadShowCount instead of the number of stored shows.
	CountOverride *int

	CountErr    error
	EpisodesErr error
	QueueErr    error
	WriteErr    error

	Calls map[string]int
}

// NewMockLibrary returns a library holding the given shows and episodes.
func NewMockLibrary(shows []models.Show, episodes []models.Episode) *MockLibrary {
	m := &MockLibrary{
		shows:    map[int64]models.Show{},
		episodes: map[int64]models.Episode{},
		Calls:    map[string]int{},
	}
	for _, s := range shows {
		m.shows[s.ID] = s
	}
	for _, e := range episodes {
		m.episodes[e.ID] = e
	}
	return m
}

func (m *MockLibrary) called(name string) {
	m.Calls[name]++
}

// CallCount returns how many times the named operation ran.
func (m *MockLibrary) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *MockLibrary) LoadShowCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("LoadShowCount")
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	if m.CountOverride != nil {
		return *m.CountOverride, nil
	}
	return len(m.shows), nil
}

func (m *MockLibrary) LoadEpisodes() ([]models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("LoadEpisodes")
	if m.EpisodesErr != nil {
		return nil, m.EpisodesErr
	}
	out := m.sorted(func(models.Episode) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DatePublished > out[j].DatePublished })
	return out, nil
}

func (m *MockLibrary) LoadQueue() ([]models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("LoadQueue")
	if m.QueueErr != nil {
		return nil, m.QueueErr
	}
	out := m.sorted(models.Episode.IsQueued)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Queued < out[j].Queued })
	return out, nil
}

func (m *MockLibrary) SubscribedShowIDs() (map[int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("SubscribedShowIDs")
	ids := make(map[int64]bool, len(m.shows))
	for id := range m.shows {
		ids[id] = true
	}
	return ids, nil
}

func (m *MockLibrary) Subscribe(show models.Show, episodes []models.Episode) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("Subscribe")
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	m.shows[show.ID] = show
	saved := 0
	for _, e := range episodes {
		e.ShowID = show.ID
		if e.Validate() != nil {
			continue
		}
		if prev, ok := m.episodes[e.ID]; ok {
			e.Queued = prev.Queued
		}
		m.episodes[e.ID] = e
		saved++
	}
	return saved, nil
}

func (m *MockLibrary) Unsubscribe(showID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("Unsubscribe")
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if _, ok := m.shows[showID]; !ok {
		return shared.ErrShowNotFound
	}
	delete(m.shows, showID)
	for id, e := range m.episodes {
		if e.ShowID == showID {
			delete(m.episodes, id)
		}
	}
	return nil
}

func (m *MockLibrary) SetQueued(episodeID int64, queued bool) (models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called("SetQueued")
	if m.WriteErr != nil {
		return models.Episode{}, m.WriteErr
	}
	e, ok := m.episodes[episodeID]
	if !ok {
		return models.Episode{}, shared.ErrEpisodeNotFound
	}
	switch {
	case !queued:
		e.Queued = 0
	case !e.IsQueued():
		var highest int64
		for _, other := range m.episodes {
			if other.Queued > highest {
				highest = other.Queued
			}
		}
		e.Queued = highest + 1
	}
	m.episodes[episodeID] = e
	return e, nil
}

// Episode returns a stored episode.
func (m *MockLibrary) Episode(id int64) (models.Episode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.episodes[id]
	return e, ok
}

// sorted returns the episodes matching keep ordered by id, as a stable base for the caller's ordering.
func (m *MockLibrary) sorted(keep func(models.Episode) bool) []models.Episode {
	out := []models.Episode{}
	for _, e := range m.episodes {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
