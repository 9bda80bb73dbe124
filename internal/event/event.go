package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	RunStarted Type = iota + 1
	WalkError
	FileStarted
	FileCopied
	FileFailed
	FileSkipped
	VerifyStarted
	VerifyOK
	VerifyFailed
	RunComplete
)

var typeNames = [...]string{
	RunStarted:    "RunStarted",
	WalkError:     "WalkError",
	FileStarted:   "FileStarted",
	FileCopied:    "FileCopied",
	FileFailed:    "FileFailed",
	FileSkipped:   "FileSkipped",
	VerifyStarted: "VerifyStarted",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
	RunComplete:   "RunComplete",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Lifecycle reports whether events of this type must never be dropped.
func (t Type) Lifecycle() bool {
	return t == RunStarted || t == RunComplete
}

// Failure reports whether the event records something that went wrong.
func (t Type) Failure() bool {
	return t == WalkError || t == FileFailed || t == VerifyFailed
}

// Event is a single message from a running search to its caller.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source path
	Dst       string // destination path, when one was chosen
	Size      int64
	Copied    int64  // progress counter value after this event
	Message   string // fixed status text (RunStarted, RunComplete)
	Error     error
	WorkerID  int
}
