package model

import "time"

// Reload triggers.
const (
	TriggerStartup = "startup"
	TriggerAPI     = "api"
	TriggerWatcher = "watcher"
)

// ReloadRequest asks the service to rebuild its snapshot from the sources.
type ReloadRequest struct {
	ID      string
	Trigger string
	At      time.Time
}
