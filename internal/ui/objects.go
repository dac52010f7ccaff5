package ui

import (
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/services"
)

// EpisodeObject is the immutable display form of an episode. It has no setters: an update builds a new
// object and replaces the old one in its list.
type EpisodeObject struct {
	id            int64
	title         *string
	description   *string
	url           *string
	imageURL      *string
	mediaURL      string
	queued        int64
	datePublished int64
	showID        int64
}

// NewEpisodeObject wraps a library episode, copying every field as stored.
// An optional field stored as an empty string other than the title is treated as absent.
func NewEpisodeObject(e models.Episode) EpisodeObject {
	return EpisodeObject{
		id:            e.ID,
		title:         clone(e.Title),
		description:   models.Optional(models.Deref(e.Description)),
		url:           models.Optional(models.Deref(e.URL)),
		imageURL:      models.Optional(models.Deref(e.ImageURL)),
		mediaURL:      e.MediaURL,
		queued:        e.Queued,
		datePublished: e.DatePublished,
		showID:        e.ShowID,
	}
}

// NewEpisodeObjectFromFeed wraps a directory episode that has not been stored yet.
//
// The title is kept as given; an empty description, link or image becomes absent, and the queue ordinal is 0.
func NewEpisodeObjectFromFeed(e services.Episode) EpisodeObject {
	title := e.Title
	return EpisodeObject{
		id:            e.ID,
		title:         &title,
		description:   models.Optional(e.Description),
		url:           models.Optional(e.Link),
		imageURL:      models.Optional(e.Image),
		mediaURL:      e.EnclosureURL,
		queued:        0,
		datePublished: e.DatePublished,
		showID:        e.FeedID,
	}
}

func (o EpisodeObject) ID() int64                   { return o.id }
func (o EpisodeObject) Title() (string, bool)       { return get(o.title) }
func (o EpisodeObject) Description() (string, bool) { return get(o.description) }
func (o EpisodeObject) URL() (string, bool)         { return get(o.url) }
func (o EpisodeObject) ImageURL() (string, bool)    { return get(o.imageURL) }
func (o EpisodeObject) MediaURL() string            { return o.mediaURL }
func (o EpisodeObject) Queued() int64               { return o.queued }
func (o EpisodeObject) IsQueued() bool              { return o.queued > 0 }
func (o EpisodeObject) DatePublished() int64        { return o.datePublished }
func (o EpisodeObject) ShowID() int64               { return o.showID }

// Record converts the object back into a library episode.
func (o EpisodeObject) Record() models.Episode {
	return models.Episode{
		ID:            o.id,
		Title:         clone(o.title),
		Description:   clone(o.description),
		URL:           clone(o.url),
		ImageURL:      clone(o.imageURL),
		MediaURL:      o.mediaURL,
		Queued:        o.queued,
		DatePublished: o.datePublished,
		ShowID:        o.showID,
	}
}

// ShowObject is the immutable display form of a show, including whether the user is subscribed.
type ShowObject struct {
	id          int64
	title       string
	description string
	feedURL     string
	imageURL    string
	subscribed  bool
}

// NewShowObject wraps a show with the given subscription state.
func NewShowObject(s models.Show, subscribed bool) ShowObject {
	return ShowObject{
		id:          s.ID,
		title:       s.Title,
		description: s.Description,
		feedURL:     s.FeedURL,
		imageURL:    s.ImageURL,
		subscribed:  subscribed,
	}
}

// NewShowObjectFromFeed wraps a directory search result.
func NewShowObjectFromFeed(f services.Feed, subscribed bool) ShowObject {
	return NewShowObject(f.Record(), subscribed)
}

func (o ShowObject) ID() int64                   { return o.id }
func (o ShowObject) Title() string               { return o.title }
func (o ShowObject) Description() (string, bool) { return o.description, o.description != "" }
func (o ShowObject) FeedURL() string             { return o.feedURL }
func (o ShowObject) ImageURL() (string, bool)    { return o.imageURL, o.imageURL != "" }
func (o ShowObject) Subscribed() bool            { return o.subscribed }

// Record converts the object back into a library show.
func (o ShowObject) Record() models.Show {
	return models.Show{
		ID:          o.id,
		Title:       o.title,
		Description: o.description,
		FeedURL:     o.feedURL,
		ImageURL:    o.imageURL,
	}
}

func get(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// clone copies the pointed-to value so objects never alias a caller's record.
func clone(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}
