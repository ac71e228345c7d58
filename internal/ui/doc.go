// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for publishing one video across accounts:
//  1. [AccountListView] : Browse stored accounts and toggle targets with space
//  2. [ConfirmView] : Confirm the publish request
//  3. [PublishView] : Monitor real-time per-account progress updates
//  4. [ResultView] : Display per-account outcomes with action hints
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the Orchestrator, providing
// non-blocking status reporting while browser sessions are driven.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
