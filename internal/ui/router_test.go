package ui

import (
	"errors"
	"slices"
	"strings"
	"testing"

	tu "github.com/desertthunder/podx/internal/testing"
)

func TestDispatchSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		searches []string
	}{
		{name: "three characters", query: "abc", searches: nil},
		{name: "four characters", query: "abcd", searches: []string{"abcd"}},
		{name: "three multibyte runes", query: "日本語", searches: nil},
		{name: "four multibyte runes", query: "日本語版", searches: []string{"日本語版"}},
		{name: "empty", query: "", searches: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testDirectory()
			m := startModel(t, tu.NewMockLibrary(nil, nil), dir)
			m.ShowView(Discover)

			drain(t, m, m.Dispatch(SearchTextChanged{Query: tt.query}))

			if !slices.Equal(dir.Searches, tt.searches) {
				t.Errorf("expected searches %v, got %v", tt.searches, dir.Searches)
			}
		})
	}

	t.Run("short queries keep earlier results", func(t *testing.T) {
		m := startModel(t, tu.NewMockLibrary(nil, nil), testDirectory())
		m.ShowView(Discover)
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "sy"}))

		if got := m.discover.Model().Len(); got != len(testFeeds()) {
			t.Errorf("expected %d results, got %d", len(testFeeds()), got)
		}
	})

	t.Run("marks subscribed results", func(t *testing.T) {
		m := startModel(t, tu.NewMockLibrary(testShows(), testEpisodes()), testDirectory())
		m.ShowView(Discover)
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "gophers"}))

		show, _ := m.discover.Model().Item(1)
		if show.ID() != 7 || !show.Subscribed() {
			t.Errorf("expected show 7 to be subscribed, got %d (%v)", show.ID(), show.Subscribed())
		}
		other, _ := m.discover.Model().Item(0)
		if other.Subscribed() {
			t.Error("expected show 10 not to be subscribed")
		}
	})

	t.Run("stale results are dropped", func(t *testing.T) {
		dir := testDirectory()
		m := startModel(t, tu.NewMockLibrary(nil, nil), dir)
		m.ShowView(Discover)

		first := m.Dispatch(SearchTextChanged{Query: "first"})
		second := m.Dispatch(SearchTextChanged{Query: "second"})
		firstMsg := first()
		dir.Feeds = dir.Feeds[:1]
		drain(t, m, second)
		m.Update(firstMsg)

		if got := m.discover.Model().Len(); got != 1 {
			t.Errorf("expected the newer search's 1 result, got %d", got)
		}
	})

	t.Run("failure is shown, not fatal", func(t *testing.T) {
		dir := testDirectory()
		dir.SearchErr = errors.New("503 service unavailable")
		m := startModel(t, tu.NewMockLibrary(nil, nil), dir)
		m.ShowView(Discover)
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))

		if m.Err() != nil {
			t.Errorf("expected no fatal error, got %v", m.Err())
		}
		if !containsAll(m.discover.View(), "Search failed", "503") {
			t.Errorf("expected failure text, got %q", m.discover.View())
		}
	})
}

func TestDispatchItemActivated(t *testing.T) {
	t.Run("discover to details and back", func(t *testing.T) {
		dir := testDirectory()
		m := startModel(t, tu.NewMockLibrary(nil, nil), dir)
		if m.ActiveView() != Empty {
			t.Fatalf("expected %v, got %v", Empty, m.ActiveView())
		}

		drain(t, m, m.Dispatch(ViewRequested{View: Discover}))
		if m.ActiveView() != Discover {
			t.Fatalf("expected %v, got %v", Discover, m.ActiveView())
		}

		drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))
		drain(t, m, m.Dispatch(ItemActivated{Index: 2}))

		if m.ActiveView() != ShowDetails {
			t.Fatalf("expected %v, got %v", ShowDetails, m.ActiveView())
		}
		show, ok := m.details.Show()
		if !ok || show.ID() != 42 {
			t.Fatalf("expected details to hold show 42, got %d (%v)", show.ID(), ok)
		}
		if got := m.details.Model().Len(); got != 2 {
			t.Errorf("expected 2 episodes, got %d", got)
		}
		if !slices.Equal(dir.EpisodeCalls, []int64{42}) {
			t.Errorf("expected episodes of show 42 to be fetched, got %v", dir.EpisodeCalls)
		}

		drain(t, m, m.Dispatch(ViewRequested{View: Discover}))
		if m.ActiveView() != Discover {
			t.Errorf("expected %v, got %v", Discover, m.ActiveView())
		}
		if _, ok := m.details.Show(); ok {
			t.Error("expected the show to be released")
		}
	})

	tests := []struct {
		name  string
		index int
	}{
		{name: "past the end", index: 4},
		{name: "negative", index: -1},
	}

	for _, tt := range tests {
		t.Run("stale position "+tt.name, func(t *testing.T) {
			m := startModel(t, tu.NewMockLibrary(nil, nil), testDirectory())
			m.ShowView(Discover)
			drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))

			if cmd := m.Dispatch(ItemActivated{Index: tt.index}); cmd != nil {
				t.Error("expected no command")
			}
			if m.ActiveView() != Discover {
				t.Errorf("expected %v, got %v", Discover, m.ActiveView())
			}
		})
	}

	t.Run("details failure stays on the screen", func(t *testing.T) {
		dir := testDirectory()
		dir.EpisodesErr = errors.New("timeout")
		m := startModel(t, tu.NewMockLibrary(nil, nil), dir)
		m.ShowView(Discover)
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))
		drain(t, m, m.Dispatch(ItemActivated{Index: 2}))

		if m.ActiveView() != ShowDetails || m.Err() != nil {
			t.Errorf("expected details without a fatal error, got %v (%v)", m.ActiveView(), m.Err())
		}
		if !containsAll(m.details.View(), "Could not load episodes") {
			t.Errorf("expected failure text, got %q", m.details.View())
		}
	})
}

func TestDispatchRefresh(t *testing.T) {
	t.Run("reloads on the episodes tab", func(t *testing.T) {
		lib := tu.NewMockLibrary(testShows(), testEpisodes())
		m := startModel(t, lib, testDirectory())
		drain(t, m, m.Dispatch(RefreshRequested{}))

		if got := lib.CallCount("LoadEpisodes"); got != 2 {
			t.Errorf("expected 2 episode loads, got %d", got)
		}
	})

	t.Run("ignored on the queue tab", func(t *testing.T) {
		lib := tu.NewMockLibrary(testShows(), testEpisodes())
		m := startModel(t, lib, testDirectory())
		m.Dispatch(TabSwitched{})

		if cmd := m.Dispatch(RefreshRequested{}); cmd != nil {
			t.Error("expected no command")
		}
		if got := lib.CallCount("LoadEpisodes"); got != 1 {
			t.Errorf("expected 1 episode load, got %d", got)
		}
	})

	t.Run("ignored outside Podcasts", func(t *testing.T) {
		m := startModel(t, tu.NewMockLibrary(nil, nil), testDirectory())
		if cmd := m.Dispatch(RefreshRequested{}); cmd != nil {
			t.Error("expected no command")
		}
	})
}

func TestDispatchQueueToggled(t *testing.T) {
	t.Run("queues in place", func(t *testing.T) {
		lib := tu.NewMockLibrary(testShows(), testEpisodes())
		m := startModel(t, lib, testDirectory())

		// position 0 is episode 2, the newest
		drain(t, m, m.Dispatch(QueueToggled{Index: 0}))

		o, _ := m.podcasts.Episodes().Model().Item(0)
		if o.ID() != 2 || o.Queued() != 2 {
			t.Errorf("expected episode 2 queued at 2, got %d at %d", o.ID(), o.Queued())
		}

		var queue []int64
		for _, q := range m.podcasts.Queue().Model().Items() {
			queue = append(queue, q.ID())
		}
		if !slices.Equal(queue, []int64{3, 2}) {
			t.Errorf("expected queue [3 2], got %v", queue)
		}
	})

	t.Run("dequeues from the queue tab", func(t *testing.T) {
		lib := tu.NewMockLibrary(testShows(), testEpisodes())
		m := startModel(t, lib, testDirectory())
		m.Dispatch(TabSwitched{})
		drain(t, m, m.Dispatch(QueueToggled{Index: 0}))

		if got := m.podcasts.Queue().Model().Len(); got != 0 {
			t.Errorf("expected empty queue, got %d", got)
		}
		i := m.podcasts.Episodes().Model().Index(func(o EpisodeObject) bool { return o.ID() == 3 })
		if o, _ := m.podcasts.Episodes().Model().Item(i); o.IsQueued() {
			t.Error("expected episode 3 not to be queued")
		}
	})

	t.Run("write failure is reported", func(t *testing.T) {
		lib := tu.NewMockLibrary(testShows(), testEpisodes())
		m := startModel(t, lib, testDirectory())
		lib.WriteErr = errors.New("readonly database")
		drain(t, m, m.Dispatch(QueueToggled{Index: 0}))

		if m.Err() != nil {
			t.Errorf("expected no fatal error, got %v", m.Err())
		}
		if !m.status.failed {
			t.Errorf("expected a failed status, got %+v", m.status)
		}
	})
}

func TestDispatchSubscriptionToggled(t *testing.T) {
	open := func(t *testing.T, lib *tu.MockLibrary, index int) *Model {
		t.Helper()
		m := startModel(t, lib, testDirectory())
		m.ShowView(Discover)
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))
		drain(t, m, m.Dispatch(ItemActivated{Index: index}))
		return m
	}

	t.Run("subscribe", func(t *testing.T) {
		lib := tu.NewMockLibrary(nil, nil)
		m := open(t, lib, 2)
		drain(t, m, m.Dispatch(SubscriptionToggled{}))

		if got := lib.CallCount("Subscribe"); got != 1 {
			t.Fatalf("expected 1 subscribe, got %d", got)
		}
		if _, ok := lib.Episode(420); !ok {
			t.Error("expected episode 420 to be stored")
		}
		show, _ := m.details.Show()
		if !show.Subscribed() {
			t.Error("expected details to show the subscription")
		}
		result, _ := m.discover.Model().Item(2)
		if result.ID() != 42 || !result.Subscribed() {
			t.Errorf("expected result 2 to be subscribed show 42, got %d (%v)", result.ID(), result.Subscribed())
		}
		if got := m.podcasts.Episodes().Model().Len(); got != 2 {
			t.Errorf("expected the library to be reloaded with 2 episodes, got %d", got)
		}
	})

	t.Run("unsubscribe", func(t *testing.T) {
		lib := tu.NewMockLibrary(testShows(), testEpisodes())
		m := open(t, lib, 1)
		drain(t, m, m.Dispatch(SubscriptionToggled{}))

		if got := lib.CallCount("Unsubscribe"); got != 1 {
			t.Fatalf("expected 1 unsubscribe, got %d", got)
		}
		result, _ := m.discover.Model().Item(1)
		if result.Subscribed() {
			t.Error("expected result 1 not to be subscribed")
		}
		if got := m.podcasts.Episodes().Model().Len(); got != 0 {
			t.Errorf("expected an empty library, got %d", got)
		}
	})

	t.Run("waits for the episodes to load", func(t *testing.T) {
		lib := tu.NewMockLibrary(nil, nil)
		m := startModel(t, lib, testDirectory())
		m.ShowView(Discover)
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))
		pending := m.Dispatch(ItemActivated{Index: 2})

		if cmd := m.Dispatch(SubscriptionToggled{}); cmd != nil {
			t.Error("expected no subscribe while episodes are loading")
		}
		if got := lib.CallCount("Subscribe"); got != 0 {
			t.Fatalf("expected 0 subscribes, got %d", got)
		}
		if !m.status.failed || !strings.Contains(m.status.text, "still loading") {
			t.Errorf("expected a still loading status, got %+v", m.status)
		}

		drain(t, m, pending)
		drain(t, m, m.Dispatch(SubscriptionToggled{}))

		if got := lib.CallCount("Subscribe"); got != 1 {
			t.Fatalf("expected 1 subscribe after the load, got %d", got)
		}
		for _, id := range []int64{420, 421} {
			if _, ok := lib.Episode(id); !ok {
				t.Errorf("expected episode %d to be stored", id)
			}
		}
	})

	t.Run("refused after a failed episode load", func(t *testing.T) {
		dir := testDirectory()
		dir.EpisodesErr = errors.New("timeout")
		lib := tu.NewMockLibrary(nil, nil)
		m := startModel(t, lib, dir)
		m.ShowView(Discover)
		drain(t, m, m.Dispatch(SearchTextChanged{Query: "syntax"}))
		drain(t, m, m.Dispatch(ItemActivated{Index: 2}))

		if cmd := m.Dispatch(SubscriptionToggled{}); cmd != nil {
			t.Error("expected no subscribe without episodes")
		}
		if got := lib.CallCount("Subscribe"); got != 0 {
			t.Errorf("expected 0 subscribes, got %d", got)
		}
		if !m.status.failed {
			t.Errorf("expected a failed status, got %+v", m.status)
		}
		show, _ := m.details.Show()
		if show.Subscribed() {
			t.Error("expected the show to stay unsubscribed")
		}
	})

	t.Run("ignored outside ShowDetails", func(t *testing.T) {
		m := startModel(t, tu.NewMockLibrary(nil, nil), testDirectory())
		if cmd := m.Dispatch(SubscriptionToggled{}); cmd != nil {
			t.Error("expected no command")
		}
	})
}

func TestDispatchLinkOpened(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		expected string
	}{
		{name: "episode link", index: 1, expected: "https://example.com/1"},
		{name: "media fallback", index: 0, expected: "https://cdn.example.com/2.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &openerSpy{}
			m := newTestModel(tu.NewMockLibrary(testShows(), testEpisodes()), testDirectory(), spy.open)
			drain(t, m, m.Init())
			drain(t, m, m.Dispatch(LinkOpened{Index: tt.index}))

			if got := spy.opened(); !slices.Equal(got, []string{tt.expected}) {
				t.Errorf("expected %v, got %v", []string{tt.expected}, got)
			}
			if m.status.failed {
				t.Errorf("expected success status, got %+v", m.status)
			}
		})
	}

	t.Run("opener failure is reported", func(t *testing.T) {
		spy := &openerSpy{err: errors.New("no browser")}
		m := newTestModel(tu.NewMockLibrary(testShows(), testEpisodes()), testDirectory(), spy.open)
		drain(t, m, m.Init())
		drain(t, m, m.Dispatch(LinkOpened{Index: 0}))

		if !m.status.failed || !containsAll(m.status.text, "no browser") {
			t.Errorf("expected failed status, got %+v", m.status)
		}
	})

	t.Run("stale position", func(t *testing.T) {
		spy := &openerSpy{}
		m := newTestModel(tu.NewMockLibrary(testShows(), testEpisodes()), testDirectory(), spy.open)
		drain(t, m, m.Init())

		if cmd := m.Dispatch(LinkOpened{Index: 9}); cmd != nil {
			t.Error("expected no command")
		}
	})
}
