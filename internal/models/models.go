package models

import (
	"fmt"
	"strings"
)

// Model is implemented by every persisted record.
type Model interface {
	Key() int64      // Key returns the record's primary key
	Validate() error // Validate checks if the record can be persisted
}

// Show is a subscribed podcast.
type Show struct {
	ID          int64
	Title       string
	Description string
	FeedURL     string
	ImageURL    string
}

// Episode is a single podcast episode stored in the library.
//
// Queued is 0 when the episode is not in the queue; otherwise it is the episode's queue ordinal.
type Episode struct {
	ID            int64
	Title         *string
	Description   *string
	URL           *string
	ImageURL      *string
	MediaURL      string
	Queued        int64
	DatePublished int64
	ShowID        int64
}

var (
	_ Model = Show{}
	_ Model = Episode{}
)

func (s Show) Key() int64 { return s.ID }

// Validate requires a positive id and a non-blank title.
func (s Show) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("show id must be positive, got %d", s.ID)
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("show %d has no title", s.ID)
	}
	return nil
}

func (e Episode) Key() int64 { return e.ID }

// Validate requires a positive id, an owning show and a non-empty media URL.
func (e Episode) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("episode id must be positive, got %d", e.ID)
	}
	if e.ShowID <= 0 {
		return fmt.Errorf("episode %d has no show", e.ID)
	}
	if e.MediaURL == "" {
		return fmt.Errorf("episode %d has no media URL", e.ID)
	}
	return nil
}

// IsQueued reports whether the episode holds a queue position.
func (e Episode) IsQueued() bool { return e.Queued > 0 }

// Optional returns a pointer to s, or nil when s is empty.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
