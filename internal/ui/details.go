package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/services"
)

// ShowDetailsView presents one show from the discover results with its directory episodes.
//
// It holds the show only while it is displayed; Release drops it.
type ShowDetailsView struct {
	loader    *Loader
	directory services.Directory
	logger    *log.Logger

	show  *ShowObject
	model *ListModel[EpisodeObject]
	list  list.Model

	// generation fences out episode loads for a show that is no longer displayed.
	generation int
	loading    bool
	failure    string
}

func NewShowDetailsView(loader *Loader, directory services.Directory, logger *log.Logger) *ShowDetailsView {
	l := newListWidget("Episodes")
	l.SetStatusBarItemName("episode", "episodes")

	return &ShowDetailsView{
		loader:    loader,
		directory: directory,
		logger:    logger,
		list:      l,
	}
}

// SetupModel binds the list model holding the show's episodes.
func (v *ShowDetailsView) SetupModel(model *ListModel[EpisodeObject]) {
	v.model = model
	model.Observe(func(ListChange) {
		v.list.SetItems(episodeItems(v.model.Items()))
	})
}

func (v *ShowDetailsView) Model() *ListModel[EpisodeObject] { return v.model }

// LoadDetails displays show and loads its episodes from the directory.
func (v *ShowDetailsView) LoadDetails(show ShowObject) tea.Cmd {
	v.show = &show
	v.generation++
	v.loading = true
	v.failure = ""
	v.model.ResetAndPopulate(nil)
	v.list.ResetSelected()

	gen := v.generation
	showID := show.ID()
	return TryLoadAndApply(v.loader, "load show details", func(ctx context.Context) ([]services.Episode, error) {
		return v.directory.ShowEpisodes(ctx, showID)
	}, func(episodes []services.Episode) tea.Cmd {
		if gen != v.generation {
			v.logger.Debug("dropping episodes for a show no longer displayed", "show", showID)
			return nil
		}
		v.loading = false
		objects := make([]EpisodeObject, len(episodes))
		for i, e := range episodes {
			objects[i] = NewEpisodeObjectFromFeed(e)
		}
		v.model.ResetAndPopulate(objects)
		return nil
	}, func(err error) tea.Cmd {
		if gen != v.generation {
			return nil
		}
		v.loading = false
		v.failure = fmt.Sprintf("Could not load episodes: %v", err)
		return nil
	})
}

// Show returns the displayed show, if any.
func (v *ShowDetailsView) Show() (ShowObject, bool) {
	if v.show == nil {
		return ShowObject{}, false
	}
	return *v.show, true
}

// SetShow swaps in an updated object for the displayed show. It is ignored when a different show is displayed.
func (v *ShowDetailsView) SetShow(show ShowObject) {
	if v.show != nil && v.show.ID() == show.ID() {
		v.show = &show
	}
}

// Loading reports whether the displayed show's episodes are still being fetched.
func (v *ShowDetailsView) Loading() bool { return v.loading }

// Failure returns the message of a failed episode load, or "" when the load succeeded or is pending.
func (v *ShowDetailsView) Failure() string { return v.failure }

// Records returns the loaded episodes as library records, attached to the displayed show.
func (v *ShowDetailsView) Records() []models.Episode {
	objects := v.model.Items()
	records := make([]models.Episode, len(objects))
	for i, o := range objects {
		records[i] = o.Record()
	}
	return records
}

// Release drops the displayed show and its episodes.
func (v *ShowDetailsView) Release() {
	v.show = nil
	v.generation++
	v.loading = false
	v.failure = ""
	v.model.ResetAndPopulate(nil)
}

// Selected returns the episode position under the cursor, or -1 when there are none.
func (v *ShowDetailsView) Selected() int {
	if v.model.Len() == 0 {
		return -1
	}
	return v.list.Index()
}

func (v *ShowDetailsView) SetSize(width, height int) {
	v.list.SetSize(width, max(height-6, 1))
}

func (v *ShowDetailsView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *ShowDetailsView) View() string {
	show, ok := v.Show()
	if !ok {
		return ""
	}

	card := NewShowCard(show)
	var b strings.Builder
	b.WriteString(styles.title.Render(card.Name))
	b.WriteString("\n")
	if card.Description != "" {
		b.WriteString(oneLine(card.Description))
		b.WriteString("\n")
	}
	if card.Subscribed {
		b.WriteString(styles.ok.Render("Subscribed"))
	} else {
		b.WriteString(styles.warn.Render("Not subscribed"))
	}
	b.WriteString("\n\n")

	switch {
	case v.failure != "":
		b.WriteString(styles.err.Render(v.failure))
	case v.loading:
		b.WriteString(styles.help.Render("Loading episodes…"))
	case v.model.Len() == 0:
		b.WriteString(styles.help.Render("This show has no episodes."))
	default:
		b.WriteString(v.list.View())
	}
	return b.String()
}
