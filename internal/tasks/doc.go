// Package tasks runs long library operations with real-time progress reporting.
//
// [RefreshEngine] pulls the latest episodes of every subscribed show from a [services.Directory]
// and stores the ones the library has not seen:
//
//  1. Lists the subscribed shows from the [Library]
//  2. Fetches each show's episodes on a worker pool, throttled by a shared [rate.Limiter]
//  3. Stores new episodes one show at a time, so the database sees a single writer
//
// A failing show is recorded in its [ShowRefreshResult] and the run continues.
//
// # Progress Reporting
//
// Progress is sent as [ProgressUpdate] values on an optional channel. Sends never block: when the channel
// is full the update is dropped.
package tasks
