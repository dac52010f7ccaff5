package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/podx/internal/models"
)

// EpisodeListView shows one list of library episodes: either every episode or the queue.
type EpisodeListView struct {
	name   string
	loader *Loader
	fetch  func() ([]models.Episode, error)
	model  *ListModel[EpisodeObject]
	list   list.Model
}

// NewEpisodesView lists every stored episode, newest first.
func NewEpisodesView(loader *Loader, repo Repository) *EpisodeListView {
	return newEpisodeListView("load episodes", "Episodes", loader, repo.LoadEpisodes)
}

// NewQueueView lists queued episodes in queue order.
func NewQueueView(loader *Loader, repo Repository) *EpisodeListView {
	return newEpisodeListView("load queue", "Queue", loader, repo.LoadQueue)
}

func newEpisodeListView(name, title string, loader *Loader, fetch func() ([]models.Episode, error)) *EpisodeListView {
	l := newListWidget(title)
	l.SetStatusBarItemName("episode", "episodes")
	return &EpisodeListView{name: name, loader: loader, fetch: fetch, list: l}
}

// SetupModel binds the list model this view renders. It must be called before the first load.
func (v *EpisodeListView) SetupModel(model *ListModel[EpisodeObject]) {
	v.model = model
	model.Observe(func(ListChange) {
		v.list.SetItems(episodeItems(v.model.Items()))
	})
}

func (v *EpisodeListView) Model() *ListModel[EpisodeObject] { return v.model }

// Load repopulates the list from the library.
func (v *EpisodeListView) Load() tea.Cmd {
	return LoadAndApply(v.loader, v.name, func(context.Context) ([]models.Episode, error) {
		return v.fetch()
	}, func(episodes []models.Episode) tea.Cmd {
		objects := make([]EpisodeObject, len(episodes))
		for i, e := range episodes {
			objects[i] = NewEpisodeObject(e)
		}
		v.model.ResetAndPopulate(objects)
		return nil
	})
}

// Selected returns the position under the cursor, or -1 when the list is empty.
func (v *EpisodeListView) Selected() int {
	if v.model.Len() == 0 {
		return -1
	}
	return v.list.Index()
}

func (v *EpisodeListView) SetSize(width, height int) {
	v.list.SetSize(width, height)
}

func (v *EpisodeListView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *EpisodeListView) View() string {
	if v.model.Len() == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.title.Render(v.list.Title), styles.help.Render("Nothing here yet."))
	}
	return v.list.View()
}
