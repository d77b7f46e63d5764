package trace

import "time"

// Event is a single advisory trace record. Advisory only: consumers must
// never branch on trace output.
type Event struct {
	Time    time.Time
	Level   Level
	Phase   string // "locate", "intern", "resolve", "check", "admit", ...
	Library string // logical name, empty for session-wide events
	Msg     string
}
