// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the catalog:
//  1. [ArtistListView] : Browse artists in the collection
//  2. [SongListView] : Browse an artist's songs; enter toggles playback
//  3. [SearchView] : Search the external catalog and add results to the collection
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Asynchronous signals (notification expiry, playback completion, the
// post-import reload timer) re-enter the event loop through the sender hook
// installed by cmd's tui command, so all state transitions stay on the
// program goroutine.
//
// The search results surface carries a generation token; a search response
// bearing a token other than the surface's current one is stale and
// discarded, which keeps reordered responses from corrupting the view.
package ui
