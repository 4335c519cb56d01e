// Package state holds the mutable mode flags shared by the registry and the
// placement controller. There is one State per session and it is passed by
// pointer; nothing reads these flags from globals.
package state

// InteractionMode selects how placement is confirmed.
type InteractionMode string

const (
	Quick     InteractionMode = "QUICK"
	Precision InteractionMode = "PRECISION"
)

// PointerMode selects what a click on the table does.
type PointerMode string

const (
	Place  PointerMode = "PLACE"
	Delete PointerMode = "DELETE"
	Move   PointerMode = "MOVE"
)

// State is the application state of one session.
type State struct {
	Freeze      bool
	PresetID    string
	Interaction InteractionMode
	Pointer     PointerMode
	DraggingID  string
}

// New returns the state a fresh session starts in.
func New() *State {
	return &State{Interaction: Quick, Pointer: Place}
}

// ToggleInteraction flips between quick and precision placement.
func (s *State) ToggleInteraction() {
	if s.Interaction == Quick {
		s.Interaction = Precision
	} else {
		s.Interaction = Quick
	}
}
