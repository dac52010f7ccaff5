package ui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/services"
	tu "github.com/desertthunder/podx/internal/testing"
)

// drain runs cmd and every command it produces. Load results and status updates are fed back into m;
// any other message is dropped.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case loadedMsg, loadFailedMsg, statusMsg:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

// openerSpy records the links handed to it.
type openerSpy struct {
	mu    sync.Mutex
	links []string
	err   error
}

func (o *openerSpy) open(link string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.links = append(o.links, link)
	return o.err
}

func (o *openerSpy) opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.links...)
}

func newTestModel(lib *tu.MockLibrary, dir *tu.MockDirectory, opener Opener) *Model {
	return New(context.Background(), Deps{
		Repository: lib,
		Directory:  dir,
		Opener:     opener,
		Logger:     log.New(io.Discard),
	})
}

// startModel builds a model and runs its startup load to completion.
func startModel(t *testing.T, lib *tu.MockLibrary, dir *tu.MockDirectory) *Model {
	t.Helper()
	m := newTestModel(lib, dir, (&openerSpy{}).open)
	drain(t, m, m.Init())
	return m
}

func ptr(s string) *string { return &s }

func testShows() []models.Show {
	return []models.Show{
		{ID: 7, Title: "Go Time", Description: "Gophers talking"},
	}
}

func testEpisodes() []models.Episode {
	return []models.Episode{
		{ID: 1, ShowID: 7, Title: ptr("Generics"), URL: ptr("https://example.com/1"), MediaURL: "https://cdn.example.com/1.mp3", DatePublished: 1700000000},
		{ID: 2, ShowID: 7, Title: ptr("Fuzzing"), MediaURL: "https://cdn.example.com/2.mp3", DatePublished: 1710000000},
		{ID: 3, ShowID: 7, Title: ptr("Modules"), MediaURL: "https://cdn.example.com/3.mp3", DatePublished: 1690000000, Queued: 1},
	}
}

func testFeeds() []services.Feed {
	return []services.Feed{
		{ID: 10, Title: "Changelog", Description: "Software news"},
		{ID: 7, Title: "Go Time", Description: "Gophers talking"},
		{ID: 42, Title: "Syntax", Artwork: "https://img.example.com/42.png"},
		{ID: 99, Title: "Darknet Diaries"},
	}
}

func testDirectory() *tu.MockDirectory {
	return &tu.MockDirectory{
		Feeds: testFeeds(),
		Episodes: map[int64][]services.Episode{
			42: {
				{ID: 420, Title: "Episode one", Link: "https://syntax.fm/1", EnclosureURL: "https://cdn.syntax.fm/1.mp3", FeedID: 42, DatePublished: 1700000000},
				{ID: 421, Title: "", EnclosureURL: "https://cdn.syntax.fm/2.mp3", FeedID: 42},
			},
		},
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
