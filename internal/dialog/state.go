// Package dialog holds the form and confirmation state machines used by the
// dashboard pages. A dialog never touches a collection itself; it hands its
// result to the callback it was built with.
package dialog

// State is the lifecycle position of a dialog.
type State int

const (
	Closed State = iota
	Open
	Submitting
	Deleting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}
