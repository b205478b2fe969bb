// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a two-pane playlist builder:
//  1. [SearchView] : Type a query, browse catalog results, add tracks
//  2. [PlaylistView] : Reorderless working playlist with shuffle, rename, save
//  3. [SaveView] : Result of pushing the playlist to the user's account
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Keystrokes in the search field are debounced before a query fires, and a
// response is discarded when a newer query has been issued since. Playback
// state shown in the status bar comes from the player state machine, which a
// background poller keeps current.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
