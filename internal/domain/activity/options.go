package activity

// DefaultListLimit caps listings that don't set a limit.
const DefaultListLimit = 50

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	SessionID string
	ProjectID string
	Type      *Type
	Limit     int
	Offset    int
}
