// Package models defines the persisted library records for podx.
//
//   - [Show] : a podcast the user is subscribed to
//   - [Episode] : one episode of a show, optionally queued for listening
//
// Optional episode fields are pointers: nil means absent, which is distinct from an empty string.
// Records are plain values; the ui package wraps them in immutable adapters for display.
package models
