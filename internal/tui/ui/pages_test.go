package ui

import (
	"slices"
	"testing"

	"github.com/rivo/tview"
)

func newTestPages(names ...string) *Pages {
	p := NewPages()
	for _, n := range names {
		p.AddPage(n, tview.NewBox(), true, false)
	}
	return p
}

func TestPushPop(t *testing.T) {
	p := newTestPages("/chats", "/chat", "/profile")
	var changes int
	p.SetOnChange(func([]string) { changes++ })

	p.Push("/chats")
	p.Push("/chat")
	if p.Current() != "/chat" || p.Depth() != 2 {
		t.Fatalf("stack = %v", p.Stack())
	}
	if got := p.Pop(); got != "/chats" {
		t.Errorf("Pop() = %q, want /chats", got)
	}
	if got := p.Pop(); got != "" {
		t.Errorf("Pop() on last page = %q, want empty", got)
	}
	if p.Current() != "/chats" {
		t.Errorf("Current() = %q", p.Current())
	}
	if changes != 3 {
		t.Errorf("onChange fired %d times, want 3", changes)
	}
}

func TestPushExistingTruncates(t *testing.T) {
	p := newTestPages("/chats", "/chat", "/profile")
	p.Push("/chats")
	p.Push("/chat")
	p.Push("/profile")
	p.Push("/chats")
	if !slices.Equal(p.Stack(), []string{"/chats"}) {
		t.Errorf("Stack() = %v, want [/chats]", p.Stack())
	}
}

func TestReset(t *testing.T) {
	p := newTestPages("/chats", "/login")
	p.Push("/chats")
	p.Reset("/login")
	if !slices.Equal(p.Stack(), []string{"/login"}) {
		t.Errorf("Stack() = %v", p.Stack())
	}
	name, _ := p.GetFrontPage()
	if name != "/login" {
		t.Errorf("front page = %q, want /login", name)
	}
}
