// Package state shares viewer data between the background poller and the UI.
//
// Store holds a single Snapshot behind a sync.RWMutex. The health poller
// writes with UpdateHealth, the viewer writes with Record after each post
// fetch, and the UI reads with Snapshot on every tick.
//
// A failed health poll keeps the last good Health and bumps
// ConsecutiveFailures; two failures in a row flip IsOffline. Samples is a
// bounded history of post fetches that Latency reduces to last, average,
// count and repeats of the most recent post. Snapshot returns copies, so
// callers may keep or mutate what they get.
//
// The zero Store is ready to use.
package state
