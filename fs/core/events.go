package core

// EventKind is the kind of change reported by a watch key.
type EventKind int

const (
	// EventCreate reports that an entry appeared in a watched directory.
	EventCreate EventKind = iota + 1
	// EventDelete reports that an entry disappeared.
	EventDelete
	// EventModify reports that an entry changed.
	EventModify
	// EventOverflow reports that events may have been lost.
	EventOverflow
)

// String returns a string representation of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventCreate:
		return "CREATE"
	case EventDelete:
		return "DELETE"
	case EventModify:
		return "MODIFY"
	case EventOverflow:
		return "OVERFLOW"
	default:
		return "UNKNOWN"
	}
}

// WatchEvent is a change observed on an entry of a watched directory.
// Context is the entry's path relative to the directory. Count is greater
// than one when repeated events were coalesced.
type WatchEvent[P any] struct {
	Kind    EventKind
	Context P
	Count   int
}
