package ui

import "github.com/bamsammich/filescope/internal/event"

// Event is the unit presenters consume.
type Event = event.Event

// Re-export event types for convenience.
const (
	RunStarted    = event.RunStarted
	WalkError     = event.WalkError
	FileStarted   = event.FileStarted
	FileCopied    = event.FileCopied
	FileFailed    = event.FileFailed
	FileSkipped   = event.FileSkipped
	VerifyStarted = event.VerifyStarted
	VerifyOK      = event.VerifyOK
	VerifyFailed  = event.VerifyFailed
	RunComplete   = event.RunComplete
)
