package gate

import (
	"fmt"
	"slices"
)

// State is the auth gate state.
type State string

const (
	Loading       State = "LOADING"
	Authenticated State = "AUTHENTICATED"
	Anonymous     State = "ANONYMOUS"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Loading:       {Authenticated, Anonymous},
	Authenticated: {Anonymous},
	Anonymous:     {Authenticated},
}

func checkTransition(from, to State) error {
	if !slices.Contains(validTransitions[from], to) {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	return nil
}

// Change is the payload of bus.SessionChanged.
type Change struct {
	From State
	To   State
}
