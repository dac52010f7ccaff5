// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// [Model] is the view coordinator. It owns which screen is visible ([Loading], [Empty], [Podcasts],
// [Discover] or [ShowDetails]) and changes it only through [Model.ShowView]. Sub-views are built first by
// [NewViews] and handed to the coordinator; each owns the [ListModel] bound to it with SetupModel.
//
// Blocking repository and directory calls go through the [Loader]: they run as bubbletea commands and
// their results are applied back on the update loop exactly once. A failed library load is fatal and
// stops the program; [Model.Err] reports it.
//
// Input is translated into [Event] values and routed by [Model.Dispatch]. Records are wrapped in
// immutable [EpisodeObject] and [ShowObject] values; an update replaces an object rather than changing it.
package ui
