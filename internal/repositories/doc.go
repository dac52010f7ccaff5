// Package repositories implements SQLite persistence for the podcast library.
//
// Key Implementations:
//   - [ShowRepository] : subscribed shows
//   - [EpisodeRepository] : episodes with queue ordinals
//   - [Library] : the library operations the terminal UI and CLI commands need, composed from the two above
//
// Queue ordinals are assigned by [NextQueueOrdinal]: 0 means not queued, otherwise the ordinal is one more than
// the highest ordinal in use, so the queue keeps the order episodes were added in.
package repositories
