// Package ui implements the Lazy Bird terminal viewer with Bubble Tea.
//
// The screen is one card: a title, a short description of the performance
// problem the demo exposes, and a content area holding the post selector,
// loading and error indicators, and the selected post. Latency metrics for
// the post fetches sit under the content. A header shows backend health from
// state.Store and a footer lists the key bindings.
//
// blogViewer holds the selection state machine and does no I/O. Model turns
// its decisions into tea.Cmds, so each fetch runs off the UI goroutine and
// comes back as a postsMsg or postMsg tagged with a sequence number.
// Responses for a superseded selection are dropped.
//
// The backend log can replace the card (l). Lines are tailed with logtail and
// zap JSON entries are colorized by level.
//
// Key bindings:
//
//   - j/k or arrows: move the selector cursor
//   - enter: load the highlighted post (the placeholder clears)
//   - x or backspace: clear the selection
//   - r: reload the post list
//   - pgup/pgdown, ctrl+u/ctrl+d: scroll
//   - T: cycle theme, l: toggle backend log, ?: help, q: quit
package ui
