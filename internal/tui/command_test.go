package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		name  string
		args  string
	}{
		{"quit", "quit", ""},
		{"  Find  A1B2C3 ", "find", "A1B2C3"},
		{"attach /tmp/photo.png", "attach", "/tmp/photo.png"},
		{"go /chat?chatId=7", "go", "/chat?chatId=7"},
		{"", "", ""},
	}
	for _, tt := range tests {
		cmd := ParseCommand(tt.input)
		if cmd.Name != tt.name || cmd.Args != tt.args {
			t.Errorf("ParseCommand(%q) = %+v, want {%s %s}", tt.input, cmd, tt.name, tt.args)
		}
	}
}

func TestCommandTarget(t *testing.T) {
	tests := []struct {
		input  string
		target string
		ok     bool
	}{
		{"chats", "/chats", true},
		{"o", "/orders", true},
		{"edit", "/profile/edit", true},
		{"security", "/profile/security", true},
		{"settings", "/profile/settings", true},
		{"sos", "/sos", true},
		{"go /chat?chatId=7", "/chat?chatId=7", true},
		{"go /nowhere", "", false},
		{"logout", "", false},
	}
	for _, tt := range tests {
		target, ok := ParseCommand(tt.input).Target()
		if target != tt.target || ok != tt.ok {
			t.Errorf("Target(%q) = %q, %v; want %q, %v", tt.input, target, ok, tt.target, tt.ok)
		}
	}
}
