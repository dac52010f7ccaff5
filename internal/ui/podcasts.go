package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Tab selects the list shown inside the podcasts screen.
type Tab int

const (
	EpisodesTab Tab = iota
	QueueTab
)

func (t Tab) String() string {
	switch t {
	case EpisodesTab:
		return "episodes"
	case QueueTab:
		return "queue"
	default:
		return ""
	}
}

// PodcastsView is the library screen: a tab of all episodes and a tab of the queue.
type PodcastsView struct {
	tab      Tab
	episodes *EpisodeListView
	queue    *EpisodeListView
}

func NewPodcastsView(episodes, queue *EpisodeListView) *PodcastsView {
	return &PodcastsView{tab: EpisodesTab, episodes: episodes, queue: queue}
}

func (v *PodcastsView) Episodes() *EpisodeListView { return v.episodes }
func (v *PodcastsView) Queue() *EpisodeListView    { return v.queue }
func (v *PodcastsView) Tab() Tab                   { return v.tab }

// Active returns the list of the selected tab.
func (v *PodcastsView) Active() *EpisodeListView {
	if v.tab == QueueTab {
		return v.queue
	}
	return v.episodes
}

// NextTab cycles between the episodes and queue tabs.
func (v *PodcastsView) NextTab() {
	if v.tab == EpisodesTab {
		v.tab = QueueTab
	} else {
		v.tab = EpisodesTab
	}
}

// RefreshVisible reports whether the refresh control is shown: only on the episodes tab.
func (v *PodcastsView) RefreshVisible() bool {
	return v.tab == EpisodesTab
}

// LoadEpisodes repopulates the episodes list.
func (v *PodcastsView) LoadEpisodes() tea.Cmd {
	return v.episodes.Load()
}

// LoadLibrary repopulates both tabs.
func (v *PodcastsView) LoadLibrary() tea.Cmd {
	return tea.Batch(v.episodes.Load(), v.queue.Load())
}

func (v *PodcastsView) SetSize(width, height int) {
	v.episodes.SetSize(width, height-2)
	v.queue.SetSize(width, height-2)
}

func (v *PodcastsView) Update(msg tea.Msg) tea.Cmd {
	return v.Active().Update(msg)
}

func (v *PodcastsView) View() string {
	tabs := make([]string, 0, 2)
	for _, t := range []Tab{EpisodesTab, QueueTab} {
		label := strings.ToUpper(t.String()[:1]) + t.String()[1:]
		if t == v.tab {
			tabs = append(tabs, styles.tabActive.Render(label))
		} else {
			tabs = append(tabs, styles.tab.Render(label))
		}
	}
	return strings.Join(tabs, " ") + "\n\n" + v.Active().View()
}
