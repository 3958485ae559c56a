package keypad

/**
 * events travel from the input frontend to the scheduler
 */

// EventType of an input event
type EventType int

const (
	// KeyDown is sent when a mapped key is pressed
	KeyDown EventType = iota

	// Quit asks the scheduler to stop
	Quit
)

// Event sent by the input frontend
type Event struct {
	Type EventType
	Key  byte
}
