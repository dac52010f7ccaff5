package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/podx/internal/shared"
)

const (
	untitledEpisode = "Untitled episode"
	untitledShow    = "Untitled show"
)

// ListChange describes a mutation of a [ListModel]: at Position, Removed items were replaced by Added items.
type ListChange struct {
	Position int
	Removed  int
	Added    int
}

// ListModel is an ordered collection of display objects keyed by position.
//
// Positions only change through ResetAndPopulate. It must only be mutated from the update loop,
// by the sub-view that owns it.
type ListModel[T any] struct {
	items     []T
	observers []func(ListChange)
}

// NewListModel creates an empty list model.
func NewListModel[T any]() *ListModel[T] {
	return &ListModel[T]{}
}

// Observe registers fn to run after every mutation.
func (l *ListModel[T]) Observe(fn func(ListChange)) {
	l.observers = append(l.observers, fn)
}

// ResetAndPopulate replaces the whole collection with items, in the order given.
func (l *ListModel[T]) ResetAndPopulate(items []T) {
	removed := len(l.items)
	l.items = append(make([]T, 0, len(items)), items...)
	l.notify(ListChange{Position: 0, Removed: removed, Added: len(items)})
}

// Append adds item after the current last position.
func (l *ListModel[T]) Append(item T) {
	l.items = append(l.items, item)
	l.notify(ListChange{Position: len(l.items) - 1, Added: 1})
}

// Replace swaps the item at position i, keeping its position. It reports false when i is out of range.
func (l *ListModel[T]) Replace(i int, item T) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items[i] = item
	l.notify(ListChange{Position: i, Removed: 1, Added: 1})
	return true
}

// Item returns the item at position i, or false when i is out of range.
func (l *ListModel[T]) Item(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(l.items) {
		return zero, false
	}
	return l.items[i], true
}

// Index returns the first position whose item satisfies match, or -1.
func (l *ListModel[T]) Index(match func(T) bool) int {
	for i, item := range l.items {
		if match(item) {
			return i
		}
	}
	return -1
}

func (l *ListModel[T]) Len() int { return len(l.items) }

// Items returns a copy of the collection in display order.
func (l *ListModel[T]) Items() []T {
	return append([]T(nil), l.items...)
}

func (l *ListModel[T]) notify(c ListChange) {
	for _, fn := range l.observers {
		fn(c)
	}
}

// EpisodeRow is the derived display state of one episode row.
type EpisodeRow struct {
	Label  string
	Date   string
	Queued bool
}

// NewEpisodeRow derives the row for o: its title, or a placeholder, and its formatted publication date.
func NewEpisodeRow(o EpisodeObject) EpisodeRow {
	label, ok := o.Title()
	if !ok || strings.TrimSpace(label) == "" {
		label = untitledEpisode
	}
	return EpisodeRow{
		Label:  label,
		Date:   shared.FormatPublished(o.DatePublished()),
		Queued: o.IsQueued(),
	}
}

// ShowCard is the derived display state of one show card.
type ShowCard struct {
	Name        string
	Description string
	Subscribed  bool
}

// NewShowCard derives the card for o.
func NewShowCard(o ShowObject) ShowCard {
	name := o.Title()
	if strings.TrimSpace(name) == "" {
		name = untitledShow
	}
	desc, _ := o.Description()
	return ShowCard{Name: name, Description: desc, Subscribed: o.Subscribed()}
}

var (
	_ list.Item = episodeItem{}
	_ list.Item = showItem{}
)

// episodeItem wraps [EpisodeRow] to implement [list.Item].
type episodeItem struct {
	row EpisodeRow
}

func (i episodeItem) FilterValue() string { return i.row.Label }
func (i episodeItem) Title() string       { return i.row.Label }
func (i episodeItem) Description() string {
	desc := i.row.Date
	if i.row.Queued {
		if desc != "" {
			desc = fmt.Sprintf("%s • queued", desc)
		} else {
			desc = "queued"
		}
	}
	return desc
}

// showItem wraps [ShowCard] to implement [list.Item].
type showItem struct {
	card ShowCard
}

func (i showItem) FilterValue() string { return i.card.Name }
func (i showItem) Title() string {
	if i.card.Subscribed {
		return fmt.Sprintf("%s ✓", i.card.Name)
	}
	return i.card.Name
}
func (i showItem) Description() string { return shared.Truncate(oneLine(i.card.Description), 120) }

func episodeItems(objects []EpisodeObject) []list.Item {
	items := make([]list.Item, len(objects))
	for i, o := range objects {
		items[i] = episodeItem{row: NewEpisodeRow(o)}
	}
	return items
}

func showItems(objects []ShowObject) []list.Item {
	items := make([]list.Item, len(objects))
	for i, o := range objects {
		items[i] = showItem{card: NewShowCard(o)}
	}
	return items
}

// newListWidget builds a list widget with filtering off, so widget positions match model positions.
func newListWidget(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

// oneLine collapses whitespace runs, including newlines, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
