package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
)

// minQueryLength is the longest query that does not trigger a search.
const minQueryLength = 3

type searchResult struct {
	feeds      []services.Feed
	subscribed map[int64]bool
}

// DiscoverView searches the podcast directory and lists matching shows.
type DiscoverView struct {
	loader    *Loader
	repo      Repository
	directory services.Directory
	logger    *log.Logger

	input textinput.Model
	list  list.Model
	model *ListModel[ShowObject]

	// pending fences out responses to searches that were superseded before they returned.
	pending   string
	searching bool
	lastQuery string
	failure   string
}

func NewDiscoverView(loader *Loader, repo Repository, directory services.Directory, logger *log.Logger) *DiscoverView {
	input := textinput.New()
	input.Placeholder = "Search podcasts"
	input.Prompt = "/ "
	input.CharLimit = 128
	input.Cursor.SetMode(cursor.CursorStatic)

	l := newListWidget("Results")
	l.SetStatusBarItemName("show", "shows")

	return &DiscoverView{
		loader:    loader,
		repo:      repo,
		directory: directory,
		logger:    logger,
		input:     input,
		list:      l,
	}
}

// SetupModel binds the list model holding search results.
func (v *DiscoverView) SetupModel(model *ListModel[ShowObject]) {
	v.model = model
	model.Observe(func(ListChange) {
		v.list.SetItems(showItems(v.model.Items()))
	})
}

func (v *DiscoverView) Model() *ListModel[ShowObject] { return v.model }

// SearchShows queries the directory and streams the results into the list model, replacing earlier results.
//
// A search that completes after a newer one was started is discarded.
func (v *DiscoverView) SearchShows(query string) tea.Cmd {
	token := shared.GenerateID()
	v.pending = token
	v.searching = true
	v.lastQuery = query
	v.failure = ""

	return TryLoadAndApply(v.loader, "search shows", func(ctx context.Context) (searchResult, error) {
		feeds, err := v.directory.SearchShows(ctx, query)
		if err != nil {
			return searchResult{}, err
		}
		subscribed, err := v.repo.SubscribedShowIDs()
		if err != nil {
			return searchResult{}, err
		}
		return searchResult{feeds: feeds, subscribed: subscribed}, nil
	}, func(r searchResult) tea.Cmd {
		if v.pending != token {
			v.logger.Debug("dropping stale search results", "query", query)
			return nil
		}
		v.searching = false
		v.model.ResetAndPopulate(nil)
		for _, f := range r.feeds {
			v.model.Append(NewShowObjectFromFeed(f, r.subscribed[f.ID]))
		}
		v.list.ResetSelected()
		return nil
	}, func(err error) tea.Cmd {
		if v.pending != token {
			return nil
		}
		v.searching = false
		v.failure = fmt.Sprintf("Search failed: %v", err)
		return nil
	})
}

// ReplaceShow swaps in an updated object for the result with the same id, keeping its position.
func (v *DiscoverView) ReplaceShow(show ShowObject) {
	i := v.model.Index(func(o ShowObject) bool { return o.ID() == show.ID() })
	if i >= 0 {
		v.model.Replace(i, show)
	}
}

// Query returns the current search text.
func (v *DiscoverView) Query() string { return v.input.Value() }

// Selected returns the result position under the cursor, or -1 when there are no results.
func (v *DiscoverView) Selected() int {
	if v.model.Len() == 0 {
		return -1
	}
	return v.list.Index()
}

func (v *DiscoverView) Focus() { v.input.Focus() }
func (v *DiscoverView) Blur()  { v.input.Blur() }

func (v *DiscoverView) SetSize(width, height int) {
	v.input.Width = max(width-4, 10)
	v.list.SetSize(width, max(height-3, 1))
}

// UpdateInput feeds msg to the search box and reports whether its text changed.
func (v *DiscoverView) UpdateInput(msg tea.Msg) (tea.Cmd, bool) {
	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd, v.input.Value() != before
}

// UpdateList feeds msg to the results list.
func (v *DiscoverView) UpdateList(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *DiscoverView) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Discover"))
	b.WriteString("\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.failure != "":
		b.WriteString(styles.err.Render(v.failure))
	case v.searching:
		b.WriteString(styles.help.Render(fmt.Sprintf("Searching for %q…", v.lastQuery)))
	case v.model.Len() > 0:
		b.WriteString(v.list.View())
	case v.lastQuery != "":
		b.WriteString(styles.help.Render(fmt.Sprintf("No shows found for %q.", v.lastQuery)))
	default:
		b.WriteString(styles.help.Render(fmt.Sprintf("Type more than %d characters to search.", minQueryLength)))
	}
	return b.String()
}
