package component

// Event type names used as EventTraversal.EventType. Hosts are free to
// define their own for application-specific targeted events; these cover
// the ones the controller itself dispatches.
const (
	EventRefresh   = "refresh"
	EventTimer     = "timer"
	EventAsync     = "async"
	EventPointer   = "pointer"
	EventKeyboard  = "keyboard"
	EventFocus     = "focus"
	EventTextInput = "text_input"
)
