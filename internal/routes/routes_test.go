package routes

import "testing"

func TestPageURL(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Chats", "/chats"},
		{"ChatRoom", "/chat"},
		{"Tasks", "/tasks"},
		{"Orders", "/orders"},
		{"Profile", "/profile"},
		{"EditProfile", "/profile/edit"},
		{"SOS", "/sos"},
		{"SecuritySettings", "/profile/security"},
		{"AppSettings", "/profile/settings"},
		{"CallScreen", "/"},
		{"", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageURL(tt.name); got != tt.want {
				t.Errorf("PageURL(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		target string
		path   string
		access Access
	}{
		{"/login", Login, PublicOnly},
		{"/register", Register, PublicOnly},
		{"/chats", Chats, Private},
		{"/chat?chatId=1&contactName=Anna", ChatRoom, Private},
		{"/profile/settings", Settings, Private},
		{"/", Chats, Private},
		{"", Chats, Private},
		{"/nope", Chats, Private},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			r := Resolve(tt.target)
			if r.Path != tt.path || r.Access != tt.access {
				t.Errorf("Resolve(%q) = %+v, want %s %s", tt.target, r, tt.path, tt.access)
			}
		})
	}
}

func TestEveryRouteHasAccess(t *testing.T) {
	for _, r := range All() {
		if r.Access != PublicOnly && r.Access != Private {
			t.Errorf("%s has no access level", r.Path)
		}
	}
	if len(All()) != 11 {
		t.Errorf("route count = %d, want 11", len(All()))
	}
}

func TestChatRoomURLRoundTrip(t *testing.T) {
	target := ChatRoomURL("c-42", "Анна & Co")
	if r := Resolve(target); r.Path != ChatRoom {
		t.Fatalf("Resolve(%q) = %s", target, r.Path)
	}
	id, name := ParseChatRoom(target)
	if id != "c-42" || name != "Анна & Co" {
		t.Errorf("ParseChatRoom = %q, %q", id, name)
	}

	id, name = ParseChatRoom(ChatRoomURL("c-1", ""))
	if id != "c-1" || name != "" {
		t.Errorf("missing contact name: %q, %q", id, name)
	}
}

func TestNavItems(t *testing.T) {
	items := NavItems()
	want := []string{"/chats", "/tasks", "/orders", "/profile", "/sos"}
	if len(items) != len(want) {
		t.Fatalf("NavItems() len = %d", len(items))
	}
	for i, it := range items {
		if it.Path != want[i] {
			t.Errorf("item %d = %s, want %s", i, it.Path, want[i])
		}
		if r, _ := Lookup(it.Path); !r.Nav {
			t.Errorf("%s should show the nav bar", it.Path)
		}
	}
}
