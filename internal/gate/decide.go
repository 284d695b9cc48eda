package gate

import "github.com/matheus3301/sentinel/internal/routes"

// Outcome is what the UI should do with a navigation target.
type Outcome int

const (
	Render Outcome = iota
	Redirect
	Wait
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	default:
		return "unknown"
	}
}

// Decision is the result of checking a navigation target against the gate.
type Decision struct {
	Outcome Outcome
	// Target is the redirect destination, or the original target for Render.
	Target string
	Route  routes.Route
}

// Decide checks one navigation target. "/" and unknown paths redirect to
// /chats, private routes need a user, public-only routes refuse one.
func (g *Gate) Decide(target string) Decision {
	path, _ := routes.Split(target)
	route := routes.Resolve(path)
	if route.Path != path {
		return Decision{Outcome: Redirect, Target: route.Path, Route: route}
	}

	g.mu.RLock()
	state, user := g.state, g.user
	g.mu.RUnlock()

	switch {
	case state == Loading:
		return Decision{Outcome: Wait, Target: target, Route: route}
	case route.Access == routes.Private && user == nil:
		return Decision{Outcome: Redirect, Target: routes.Login, Route: route}
	case route.Access == routes.PublicOnly && user != nil:
		return Decision{Outcome: Redirect, Target: routes.Chats, Route: route}
	default:
		return Decision{Outcome: Render, Target: target, Route: route}
	}
}

// maxHops bounds redirect chains; the route table never needs more than two.
const maxHops = 4

// Navigate follows redirects from target until a page renders or the gate
// is still loading.
func (g *Gate) Navigate(target string) Decision {
	d := g.Decide(target)
	for i := 0; d.Outcome == Redirect && i < maxHops; i++ {
		d = g.Decide(d.Target)
	}
	return d
}
