package ui

// View is the top-level screen currently visible. Exactly one is active at a time.
type View int

const (
	Loading View = iota
	Empty
	Podcasts
	Discover
	ShowDetails
)

// AllViews lists every screen in declaration order.
var AllViews = []View{Loading, Empty, Podcasts, Discover, ShowDetails}

func (v View) String() string {
	switch v {
	case Loading:
		return "loading-view"
	case Empty:
		return "empty-view"
	case Podcasts:
		return "podcasts-view"
	case Discover:
		return "discover-view"
	case ShowDetails:
		return "show-details-view"
	default:
		return ""
	}
}
