package ui

import (
	"context"
	"fmt"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

// Event is an input the coordinator reacts to. The set is closed: every event type is declared here.
type Event interface {
	event()
}

// ViewRequested asks for a screen switch.
type ViewRequested struct {
	View View
}

// SearchTextChanged carries the discover search box's new text.
type SearchTextChanged struct {
	Query string
}

// ItemActivated reports activation of the discover result at Index.
type ItemActivated struct {
	Index int
}

// RefreshRequested asks for the library episodes to be reloaded.
type RefreshRequested struct{}

// QueueToggled flips the queued state of the library episode at Index in the active tab.
type QueueToggled struct {
	Index int
}

// SubscriptionToggled subscribes to or unsubscribes from the show on the details screen.
type SubscriptionToggled struct{}

// LinkOpened opens the web link of the episode at Index on the current screen.
type LinkOpened struct {
	Index int
}

// TabSwitched moves to the next tab of the podcasts screen.
type TabSwitched struct{}

func (ViewRequested) event()       {}
func (SearchTextChanged) event()   {}
func (ItemActivated) event()       {}
func (RefreshRequested) event()    {}
func (QueueToggled) event()        {}
func (SubscriptionToggled) event() {}
func (LinkOpened) event()          {}
func (TabSwitched) event()         {}

// Dispatch routes e to a screen switch or a sub-view operation. It must be called from the update loop.
func (m *Model) Dispatch(e Event) tea.Cmd {
	switch e := e.(type) {
	case ViewRequested:
		return m.ShowView(e.View)
	case SearchTextChanged:
		if utf8.RuneCountInString(e.Query) <= minQueryLength {
			return nil
		}
		return m.discover.SearchShows(e.Query)
	case ItemActivated:
		return m.activate(e.Index)
	case RefreshRequested:
		if m.view != Podcasts || !m.podcasts.RefreshVisible() {
			return nil
		}
		return m.podcasts.LoadEpisodes()
	case QueueToggled:
		return m.toggleQueued(e.Index)
	case SubscriptionToggled:
		return m.toggleSubscription()
	case LinkOpened:
		return m.openLink(e.Index)
	case TabSwitched:
		if m.view == Podcasts {
			m.podcasts.NextTab()
		}
		return nil
	default:
		m.logger.Warn("unhandled event", "event", fmt.Sprintf("%T", e))
		return nil
	}
}

// activate resolves index against the current discover results and opens that show's details.
func (m *Model) activate(index int) tea.Cmd {
	if m.view != Discover {
		return nil
	}
	show, ok := m.discover.Model().Item(index)
	if !ok {
		m.logger.Debug("dropping activation of a stale position", "index", index, "len", m.discover.Model().Len())
		return nil
	}

	cmd := m.details.LoadDetails(show)
	m.ShowView(ShowDetails)
	return cmd
}

func (m *Model) toggleQueued(index int) tea.Cmd {
	if m.view != Podcasts {
		return nil
	}
	episode, ok := m.podcasts.Active().Model().Item(index)
	if !ok {
		m.logger.Debug("dropping queue toggle of a stale position", "index", index)
		return nil
	}

	id, queue := episode.ID(), !episode.IsQueued()
	return TryLoadAndApply(m.loader, "toggle queued", func(context.Context) (models.Episode, error) {
		return m.repo.SetQueued(id, queue)
	}, func(updated models.Episode) tea.Cmd {
		episodes := m.podcasts.Episodes().Model()
		if i := episodes.Index(func(o EpisodeObject) bool { return o.ID() == updated.ID }); i >= 0 {
			episodes.Replace(i, NewEpisodeObject(updated))
		}
		if queue {
			m.setStatus(statusOK("Added to queue"))
		} else {
			m.setStatus(statusOK("Removed from queue"))
		}
		return m.podcasts.Queue().Load()
	}, m.reportFailure("Could not update the queue"))
}

func (m *Model) toggleSubscription() tea.Cmd {
	if m.view != ShowDetails {
		return nil
	}
	show, ok := m.details.Show()
	if !ok {
		return nil
	}

	if show.Subscribed() {
		id := show.ID()
		return TryLoadAndApply(m.loader, "unsubscribe", func(context.Context) (int, error) {
			return 0, m.repo.Unsubscribe(id)
		}, func(int) tea.Cmd {
			return m.subscriptionChanged(show, false, 0)
		}, m.reportFailure("Could not unsubscribe"))
	}

	// a subscription stores the episodes shown here, so they must be complete
	if m.details.Loading() {
		m.setStatus(statusFailed("Episodes are still loading, subscribe once they appear"))
		return nil
	}
	if m.details.Failure() != "" {
		m.setStatus(statusFailed("Cannot subscribe without the show's episodes"))
		return nil
	}

	record, episodes := show.Record(), m.details.Records()
	return TryLoadAndApply(m.loader, "subscribe", func(context.Context) (int, error) {
		return m.repo.Subscribe(record, episodes)
	}, func(saved int) tea.Cmd {
		return m.subscriptionChanged(show, true, saved)
	}, m.reportFailure("Could not subscribe"))
}

// subscriptionChanged replaces the show's objects on the discover and details screens and reloads the library.
func (m *Model) subscriptionChanged(show ShowObject, subscribed bool, saved int) tea.Cmd {
	updated := NewShowObject(show.Record(), subscribed)
	m.details.SetShow(updated)
	m.discover.ReplaceShow(updated)

	name := NewShowCard(updated).Name
	if subscribed {
		m.setStatus(statusOK(fmt.Sprintf("Subscribed to %s (%d episodes)", name, saved)))
	} else {
		m.setStatus(statusOK(fmt.Sprintf("Unsubscribed from %s", name)))
	}
	return m.podcasts.LoadLibrary()
}

// openLink hands the selected episode's web link, or its media URL when it has none, to the opener.
func (m *Model) openLink(index int) tea.Cmd {
	var (
		episode EpisodeObject
		ok      bool
	)
	switch m.view {
	case Podcasts:
		episode, ok = m.podcasts.Active().Model().Item(index)
	case ShowDetails:
		episode, ok = m.details.Model().Item(index)
	}
	if !ok {
		return nil
	}

	link, present := episode.URL()
	if !present {
		link = episode.MediaURL()
	}
	if link == "" {
		m.setStatus(statusFailed(shared.ErrNoLink.Error()))
		return nil
	}

	open := m.opener
	return func() tea.Msg {
		if err := open(link); err != nil {
			m.logger.Error("failed to open link", "link", link, "error", err)
			return statusFailed(fmt.Sprintf("Could not open link: %v", err))
		}
		return statusOK(fmt.Sprintf("Opened %s", link))
	}
}

// reportFailure returns a load failure handler that shows prefix and the error on the status line.
func (m *Model) reportFailure(prefix string) func(error) tea.Cmd {
	return func(err error) tea.Cmd {
		m.setStatus(statusFailed(fmt.Sprintf("%s: %v", prefix, err)))
		return nil
	}
}
