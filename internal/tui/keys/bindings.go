package keys

import "github.com/gdamore/tcell/v2"

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Label is the key as shown in the menu, e.g. "n" or "Enter".
func (a *Action) Label() string {
	if a.Key == tcell.KeyRune {
		return string(a.Rune)
	}
	if name, ok := tcell.KeyNames[a.Key]; ok {
		return name
	}
	return "?"
}

type scope struct {
	names   []string
	actions map[string]*Action
}

func newScope() *scope {
	return &scope{actions: make(map[string]*Action)}
}

func (s *scope) add(name string, a *Action) {
	if _, ok := s.actions[name]; !ok {
		s.names = append(s.names, name)
	}
	s.actions[name] = a
}

func (s *scope) match(ev *tcell.EventKey) *Action {
	for _, n := range s.names {
		if a := s.actions[n]; a.Handler != nil && a.Matches(ev) {
			return a
		}
	}
	return nil
}

// Registry holds keybindings organized by scope. Bindings keep their
// registration order, which is also the order hints are listed in.
type Registry struct {
	global *scope
	views  map[string]*scope
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		global: newScope(),
		views:  make(map[string]*scope),
	}
}

// AddGlobal registers a global keybinding. Re-adding a name replaces it.
func (r *Registry) AddGlobal(name string, action *Action) {
	r.global.add(name, action)
}

// AddView registers a view-specific keybinding.
func (r *Registry) AddView(view, name string, action *Action) {
	s, ok := r.views[view]
	if !ok {
		s = newScope()
		r.views[view] = s
	}
	s.add(name, action)
}

// Hint is a visible binding as rendered by the menu.
type Hint struct {
	Key         string
	Description string
}

// Hints returns visible bindings for a view, view bindings first.
func (r *Registry) Hints(view string) []Hint {
	var hints []Hint
	collect := func(s *scope) {
		for _, n := range s.names {
			if a := s.actions[n]; a.Visible {
				hints = append(hints, Hint{Key: a.Label(), Description: a.Description})
			}
		}
	}
	if s, ok := r.views[view]; ok {
		collect(s)
	}
	collect(r.global)
	return hints
}

// HandleEvent dispatches a key event to matching action in the given view.
// Returns true if a handler matched.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	if s, ok := r.views[view]; ok {
		if a := s.match(ev); a != nil {
			a.Handler()
			return true
		}
	}
	if a := r.global.match(ev); a != nil {
		a.Handler()
		return true
	}
	return false
}
