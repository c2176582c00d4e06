// Package app is the composition root of the Lazy Bird viewer.
//
// Run builds the blog client from the loaded config, creates the shared
// state.Store, probes backend health once, then starts the health poller and
// hands control to the Bubble Tea UI. When the UI exits the poller is
// cancelled and Run waits for it to stop.
//
//	Run()
//	  ├─> prefs.Load()       theme and log pane preference
//	  ├─> blog.NewClient()   gateway HTTP client
//	  ├─> refresh()          first health probe
//	  ├─> StartPoller()      background /health probes with backoff
//	  └─> ui.Run()           blocks until quit
//
// The poller probes every PollInterval while the backend answers. Each
// consecutive failure doubles the wait up to 30 seconds. Two failures in a
// row mark the backend offline in the header. Post fetches are not retried;
// the viewer shows the error and the user picks again.
//
// A backend that is down at startup is not fatal. Only an invalid API URL
// stops Run before the UI starts.
package app
