package ui

import "github.com/rivo/tview"

// Pages is a stack-based page manager wrapping tview.Pages. Page names are
// route paths; the stack doubles as the back-navigation history.
type Pages struct {
	*tview.Pages
	stack    []string
	onChange func(stack []string)
}

// NewPages creates a new stack-based page manager.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push shows a page on top of the stack. If the page is already in the
// stack, everything above it is dropped instead of stacking a second copy.
func (p *Pages) Push(name string) {
	for i, n := range p.stack {
		if n == name {
			for _, above := range p.stack[i+1:] {
				p.HidePage(above)
			}
			p.stack = p.stack[:i+1]
			p.show(name)
			p.notify()
			return
		}
	}
	if len(p.stack) > 0 {
		p.HidePage(p.stack[len(p.stack)-1])
	}
	p.stack = append(p.stack, name)
	p.show(name)
	p.notify()
}

// Pop removes the top page and shows the previous one.
// Returns the name of the new top page, or empty if nothing could be popped.
func (p *Pages) Pop() string {
	if len(p.stack) < 2 {
		return ""
	}
	p.HidePage(p.stack[len(p.stack)-1])
	p.stack = p.stack[:len(p.stack)-1]
	current := p.stack[len(p.stack)-1]
	p.show(current)
	p.notify()
	return current
}

// Current returns the name of the current (top) page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Stack returns a copy of the current page stack.
func (p *Pages) Stack() []string {
	s := make([]string, len(p.stack))
	copy(s, p.stack)
	return s
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset clears the stack and shows only the given page.
func (p *Pages) Reset(name string) {
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.show(name)
	p.notify()
}

func (p *Pages) show(name string) {
	p.ShowPage(name)
	p.SendToFront(name)
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
