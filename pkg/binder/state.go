package binder

// State is the lifecycle state of a node.
type State uint8

const (
	Unattached State = iota
	Attached
	Detached
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}
