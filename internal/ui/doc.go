// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for the label catalog:
//  1. [DiscoverView] : Browse the ranked song list and start playback
//  2. [ArtistView] : Inspect a musician's profile, songs, and donations
//  3. [LoginView] : Sign in as a listener or musician
//  4. [DonateView] : Send a donation to an artist or the label
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Store changes flow in as messages: the model subscribes to the
// catalog, the session, and the playback session, and surfaces each channel
// receive as a command so views re-render from fresh snapshots instead of
// polling. A persistent player bar renders beneath every view.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
