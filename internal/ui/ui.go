package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// chromeHeight is the space below the active screen: a blank line, the status line and the help line.
	chromeHeight = 3
)

// Deps are the collaborators the coordinator and its sub-views use.
type Deps struct {
	Repository Repository
	Directory  services.Directory
	Opener     Opener
	Logger     *log.Logger
}

// Views holds the sub-views. They are built before the coordinator, which only references them.
type Views struct {
	Empty    *EmptyView
	Podcasts *PodcastsView
	Discover *DiscoverView
	Details  *ShowDetailsView
}

// NewViews builds every sub-view over loader and binds a fresh list model to each list-backed view.
func NewViews(loader *Loader, deps Deps) Views {
	episodes := NewEpisodesView(loader, deps.Repository)
	episodes.SetupModel(NewListModel[EpisodeObject]())
	queue := NewQueueView(loader, deps.Repository)
	queue.SetupModel(NewListModel[EpisodeObject]())

	discover := NewDiscoverView(loader, deps.Repository, deps.Directory, deps.Logger)
	discover.SetupModel(NewListModel[ShowObject]())

	details := NewShowDetailsView(loader, deps.Directory, deps.Logger)
	details.SetupModel(NewListModel[EpisodeObject]())

	return Views{
		Empty:    NewEmptyView(),
		Podcasts: NewPodcastsView(episodes, queue),
		Discover: discover,
		Details:  details,
	}
}

// Model is the view coordinator. It owns the active [View] and is the only writer of it.
type Model struct {
	loader *Loader
	repo   Repository
	opener Opener
	logger *log.Logger

	view     View
	empty    *EmptyView
	podcasts *PodcastsView
	discover *DiscoverView
	details  *ShowDetailsView

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	status  statusMsg
	width   int
	height  int
	err     error
}

// New builds the loader, the sub-views and the coordinator over deps.
func New(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Directory == nil {
		deps.Directory = services.Offline{}
	}
	loader := NewLoader(ctx, deps.Logger)
	return NewModel(loader, deps, NewViews(loader, deps))
}

// NewModel creates the coordinator in the [Loading] view.
func NewModel(loader *Loader, deps Deps, views Views) *Model {
	opener := deps.Opener
	if opener == nil {
		opener = shared.OpenBrowser
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		loader:   loader,
		repo:     deps.Repository,
		opener:   opener,
		logger:   logger,
		view:     Loading,
		empty:    views.Empty,
		podcasts: views.Podcasts,
		discover: views.Discover,
		details:  views.Details,
		spinner:  s,
		help:     help.New(),
		keys:     newKeyMap(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Init starts the library load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadShows(), m.spinner.Tick)
}

// loadShows counts the library's shows and leaves [Loading]: for the podcasts screen, after triggering the
// episode load, when there are any; for the empty screen otherwise.
func (m *Model) loadShows() tea.Cmd {
	return LoadAndApply(m.loader, "load show count", func(context.Context) (int, error) {
		return m.repo.LoadShowCount()
	}, func(n int) tea.Cmd {
		if n > 0 {
			cmd := m.podcasts.LoadLibrary()
			m.ShowView(Podcasts)
			return cmd
		}
		m.ShowView(Empty)
		return nil
	})
}

// ActiveView returns the visible screen.
func (m *Model) ActiveView() View { return m.view }

// Err returns the fatal load failure that stopped the program, if any.
func (m *Model) Err() error { return m.err }

// ShowView makes target the visible screen. Showing the active screen again does nothing.
//
// Leaving [ShowDetails] releases the displayed show. The search box has focus only while [Discover] is visible.
func (m *Model) ShowView(target View) tea.Cmd {
	if target == m.view {
		return nil
	}

	previous := m.view
	m.view = target
	m.status = statusMsg{}
	m.logger.Debug("view changed", "from", previous, "to", target)

	switch previous {
	case ShowDetails:
		m.details.Release()
	case Discover:
		m.discover.Blur()
	}

	switch target {
	case Discover:
		m.discover.Focus()
	case Loading:
		return m.spinner.Tick
	}
	return nil
}

// Update handles incoming messages. It is the only place UI state changes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.view != Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m, msg.run()

	case loadFailedMsg:
		if msg.recover != nil {
			return m, msg.recover(msg.err)
		}
		m.err = fmt.Errorf("%w: %s: %w", shared.ErrLoadFailed, msg.name, msg.err)
		m.logger.Error("fatal load failure", "load", msg.name, "error", msg.err)
		return m, tea.Quit

	case statusMsg:
		m.setStatus(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.forceQuit) {
		return tea.Quit
	}

	switch m.view {
	case Loading:
		if key.Matches(msg, m.keys.quit) {
			return tea.Quit
		}
		return nil

	case Empty:
		switch {
		case key.Matches(msg, m.keys.quit):
			return tea.Quit
		case key.Matches(msg, m.keys.discover):
			return m.Dispatch(ViewRequested{View: Discover})
		}
		return nil

	case Podcasts:
		switch {
		case key.Matches(msg, m.keys.quit):
			return tea.Quit
		case key.Matches(msg, m.keys.discover):
			return m.Dispatch(ViewRequested{View: Discover})
		case key.Matches(msg, m.keys.tab):
			return m.Dispatch(TabSwitched{})
		case key.Matches(msg, m.keys.refresh):
			return m.Dispatch(RefreshRequested{})
		case key.Matches(msg, m.keys.queue):
			return m.Dispatch(QueueToggled{Index: m.podcasts.Active().Selected()})
		case key.Matches(msg, m.keys.open):
			return m.Dispatch(LinkOpened{Index: m.podcasts.Active().Selected()})
		}
		return m.podcasts.Update(msg)

	case Discover:
		switch msg.Type {
		case tea.KeyEsc:
			return m.Dispatch(ViewRequested{View: Podcasts})
		case tea.KeyEnter:
			return m.Dispatch(ItemActivated{Index: m.discover.Selected()})
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			return m.discover.UpdateList(msg)
		}
		cmd, changed := m.discover.UpdateInput(msg)
		if !changed {
			return cmd
		}
		return tea.Batch(cmd, m.Dispatch(SearchTextChanged{Query: m.discover.Query()}))

	case ShowDetails:
		switch {
		case key.Matches(msg, m.keys.quit):
			return tea.Quit
		case key.Matches(msg, m.keys.back):
			return m.Dispatch(ViewRequested{View: Discover})
		case key.Matches(msg, m.keys.subscribe):
			return m.Dispatch(SubscriptionToggled{})
		case key.Matches(msg, m.keys.open):
			return m.Dispatch(LinkOpened{Index: m.details.Selected()})
		}
		return m.details.Update(msg)
	}
	return nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	body := max(height-chromeHeight, 1)
	m.empty.SetSize(width, body)
	m.podcasts.SetSize(width, body)
	m.discover.SetSize(width, body)
	m.details.SetSize(width, body)
}

func (m *Model) setStatus(s statusMsg) {
	m.status = s
	if s.failed {
		m.logger.Warn(s.text)
	}
}

// View renders the active screen, the status line and the key help.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	var body string
	switch m.view {
	case Loading:
		body = fmt.Sprintf("%s Loading library…", m.spinner.View())
	case Empty:
		body = m.empty.View()
	case Podcasts:
		body = m.podcasts.View()
	case Discover:
		body = m.discover.View()
	case ShowDetails:
		body = m.details.View()
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	switch {
	case m.status.failed:
		b.WriteString(styles.err.Render(m.status.text))
	case m.status.text != "":
		b.WriteString(styles.ok.Render(m.status.text))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.forView(m.view, m.podcasts.RefreshVisible())))
	return b.String()
}
