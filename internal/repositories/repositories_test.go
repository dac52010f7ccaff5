package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testShow(id int64, title string) models.Show {
	return models.Show{ID: id, Title: title, FeedURL: "https://example.com/feed.xml"}
}

func testEpisode(id, showID, published int64) models.Episode {
	return models.Episode{
		ID:            id,
		Title:         models.Optional("Episode"),
		MediaURL:      "https://example.com/episode.mp3",
		DatePublished: published,
		ShowID:        showID,
	}
}

func TestShowRepository(t *testing.T) {
	t.Run("Save and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewShowRepository(db)
		show := testShow(10, "Show")
		show.Description = "about things"

		if err := repo.Save(show); err != nil {
			t.Fatalf("failed to save show: %v", err)
		}

		got, err := repo.Get(10)
		if err != nil {
			t.Fatalf("failed to get show: %v", err)
		}
		if got != show {
			t.Errorf("expected %+v, got %+v", show, got)
		}
	})

	t.Run("Save updates metadata", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewShowRepository(db)
		if err := repo.Save(testShow(1, "Old")); err != nil {
			t.Fatalf("failed to save show: %v", err)
		}
		if err := repo.Save(testShow(1, "New")); err != nil {
			t.Fatalf("failed to update show: %v", err)
		}

		got, _ := repo.Get(1)
		if got.Title != "New" {
			t.Errorf("expected title New, got %s", got.Title)
		}

		count, _ := repo.Count()
		if count != 1 {
			t.Errorf("expected 1 show, got %d", count)
		}
	})

	t.Run("Save rejects invalid show", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewShowRepository(db).Save(models.Show{ID: 1})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewShowRepository(db).Get(99)
		if !errors.Is(err, shared.ErrShowNotFound) {
			t.Errorf("expected ErrShowNotFound, got %v", err)
		}
	})

	t.Run("List orders by title", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewShowRepository(db)
		for _, s := range []models.Show{testShow(1, "zeta"), testShow(2, "Alpha"), testShow(3, "beta")} {
			if err := repo.Save(s); err != nil {
				t.Fatalf("failed to save show: %v", err)
			}
		}

		shows, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list shows: %v", err)
		}
		want := []string{"Alpha", "beta", "zeta"}
		for i, s := range shows {
			if s.Title != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], s.Title)
			}
		}
	})

	t.Run("Delete removes episodes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		if _, err := lib.Subscribe(testShow(1, "Show"), []models.Episode{testEpisode(1, 1, 100)}); err != nil {
			t.Fatalf("failed to subscribe: %v", err)
		}

		if err := lib.Shows().Delete(1); err != nil {
			t.Fatalf("failed to delete show: %v", err)
		}

		if _, err := lib.Episodes().Get(1); !errors.Is(err, shared.ErrEpisodeNotFound) {
			t.Errorf("expected episode to be removed, got %v", err)
		}

		if err := lib.Shows().Delete(1); !errors.Is(err, shared.ErrShowNotFound) {
			t.Errorf("expected ErrShowNotFound on second delete, got %v", err)
		}
	})
}

func TestEpisodeRepository(t *testing.T) {
	t.Run("optional fields round trip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewShowRepository(db).Save(testShow(1, "Show")); err != nil {
			t.Fatalf("failed to save show: %v", err)
		}

		repo := NewEpisodeRepository(db)
		episode := testEpisode(5, 1, 100)
		episode.Description = models.Optional("desc")

		if err := repo.Save(episode); err != nil {
			t.Fatalf("failed to save episode: %v", err)
		}

		got, err := repo.Get(5)
		if err != nil {
			t.Fatalf("failed to get episode: %v", err)
		}
		if models.Deref(got.Title) != "Episode" {
			t.Errorf("expected title Episode, got %v", got.Title)
		}
		if models.Deref(got.Description) != "desc" {
			t.Errorf("expected description desc, got %v", got.Description)
		}
		if got.URL != nil || got.ImageURL != nil {
			t.Error("expected absent fields to stay absent")
		}
		if got.MediaURL != episode.MediaURL || got.DatePublished != 100 || got.ShowID != 1 {
			t.Errorf("unexpected episode %+v", got)
		}
	})

	t.Run("Save rejects missing media", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		episode := testEpisode(1, 1, 0)
		episode.MediaURL = ""
		if err := NewEpisodeRepository(db).Save(episode); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("List is newest first", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		episodes := []models.Episode{testEpisode(1, 1, 100), testEpisode(2, 1, 300), testEpisode(3, 1, 200)}
		if _, err := lib.Subscribe(testShow(1, "Show"), episodes); err != nil {
			t.Fatalf("failed to subscribe: %v", err)
		}

		got, err := lib.LoadEpisodes()
		if err != nil {
			t.Fatalf("failed to load episodes: %v", err)
		}
		want := []int64{2, 3, 1}
		if len(got) != len(want) {
			t.Fatalf("expected %d episodes, got %d", len(want), len(got))
		}
		for i, e := range got {
			if e.ID != want[i] {
				t.Errorf("position %d: expected episode %d, got %d", i, want[i], e.ID)
			}
		}
	})

	t.Run("SetQueued assigns ordinals in order", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		episodes := []models.Episode{testEpisode(1, 1, 100), testEpisode(2, 1, 200), testEpisode(3, 1, 300)}
		if _, err := lib.Subscribe(testShow(1, "Show"), episodes); err != nil {
			t.Fatalf("failed to subscribe: %v", err)
		}

		for _, id := range []int64{3, 1} {
			if _, err := lib.SetQueued(id, true); err != nil {
				t.Fatalf("failed to queue %d: %v", id, err)
			}
		}

		again, err := lib.SetQueued(3, true)
		if err != nil {
			t.Fatalf("failed to re-queue: %v", err)
		}
		if again.Queued != 1 {
			t.Errorf("expected re-queue to keep ordinal 1, got %d", again.Queued)
		}

		queue, err := lib.LoadQueue()
		if err != nil {
			t.Fatalf("failed to load queue: %v", err)
		}
		if len(queue) != 2 || queue[0].ID != 3 || queue[1].ID != 1 {
			t.Fatalf("unexpected queue order %+v", queue)
		}

		removed, err := lib.SetQueued(3, false)
		if err != nil {
			t.Fatalf("failed to dequeue: %v", err)
		}
		if removed.Queued != 0 {
			t.Errorf("expected queued 0 after removal, got %d", removed.Queued)
		}

		next, _ := lib.SetQueued(2, true)
		if next.Queued != 3 {
			t.Errorf("expected next ordinal 3, got %d", next.Queued)
		}
	})

	t.Run("SetQueued on missing episode", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewEpisodeRepository(db).SetQueued(42, true)
		if !errors.Is(err, shared.ErrEpisodeNotFound) {
			t.Errorf("expected ErrEpisodeNotFound, got %v", err)
		}
	})

	t.Run("LatestPublished", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		if _, err := lib.Subscribe(testShow(1, "Show"), []models.Episode{testEpisode(1, 1, 100), testEpisode(2, 1, 500)}); err != nil {
			t.Fatalf("failed to subscribe: %v", err)
		}

		ts, err := lib.Episodes().LatestPublished(1)
		if err != nil {
			t.Fatalf("failed to read latest: %v", err)
		}
		if ts != 500 {
			t.Errorf("expected 500, got %d", ts)
		}

		if ts, _ := lib.Episodes().LatestPublished(2); ts != 0 {
			t.Errorf("expected 0 for unknown show, got %d", ts)
		}
	})
}

func TestLibrary(t *testing.T) {
	t.Run("Subscribe skips episodes without media", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		noMedia := testEpisode(2, 1, 100)
		noMedia.MediaURL = ""

		saved, err := lib.Subscribe(testShow(1, "Show"), []models.Episode{testEpisode(1, 99, 100), noMedia})
		if err != nil {
			t.Fatalf("failed to subscribe: %v", err)
		}
		if saved != 1 {
			t.Errorf("expected 1 saved episode, got %d", saved)
		}

		got, _ := lib.Episodes().Get(1)
		if got.ShowID != 1 {
			t.Errorf("expected episode to be attached to show 1, got %d", got.ShowID)
		}
	})

	t.Run("LoadShows orders by title", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		lib.Subscribe(testShow(1, "zebra"), nil)
		lib.Subscribe(testShow(2, "Alpha"), nil)

		shows, err := lib.LoadShows()
		if err != nil {
			t.Fatalf("failed to load shows: %v", err)
		}
		if len(shows) != 2 || shows[0].ID != 2 || shows[1].ID != 1 {
			t.Errorf("expected [2 1], got %+v", shows)
		}
	})

	t.Run("LoadShowCount and SubscribedShowIDs", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		count, err := lib.LoadShowCount()
		if err != nil || count != 0 {
			t.Fatalf("expected empty library, got %d (%v)", count, err)
		}

		lib.Subscribe(testShow(1, "One"), nil)
		lib.Subscribe(testShow(2, "Two"), nil)

		count, _ = lib.LoadShowCount()
		if count != 2 {
			t.Errorf("expected 2 shows, got %d", count)
		}

		ids, err := lib.SubscribedShowIDs()
		if err != nil {
			t.Fatalf("failed to read ids: %v", err)
		}
		if !ids[1] || !ids[2] || ids[3] {
			t.Errorf("unexpected id set %v", ids)
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		lib.Subscribe(testShow(1, "One"), []models.Episode{testEpisode(1, 1, 100)})

		if err := lib.Unsubscribe(1); err != nil {
			t.Fatalf("failed to unsubscribe: %v", err)
		}

		episodes, _ := lib.LoadEpisodes()
		if len(episodes) != 0 {
			t.Errorf("expected no episodes after unsubscribe, got %d", len(episodes))
		}
	})

	t.Run("AddEpisodes counts only new episodes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		lib := NewLibrary(db)
		lib.Subscribe(testShow(1, "One"), []models.Episode{testEpisode(1, 1, 100)})
		lib.SetQueued(1, true)

		added, err := lib.AddEpisodes(1, []models.Episode{testEpisode(1, 1, 100), testEpisode(2, 1, 200)})
		if err != nil {
			t.Fatalf("failed to add episodes: %v", err)
		}
		if added != 1 {
			t.Errorf("expected 1 new episode, got %d", added)
		}

		first, _ := lib.Episodes().Get(1)
		if first.Queued != 1 {
			t.Errorf("expected queue position to survive refresh, got %d", first.Queued)
		}

		if _, err := lib.AddEpisodes(7, nil); !errors.Is(err, shared.ErrShowNotFound) {
			t.Errorf("expected ErrShowNotFound for unknown show, got %v", err)
		}
	})
}
