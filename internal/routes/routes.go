package routes

import (
	"net/url"
	"strings"
)

// Route paths.
const (
	Root        = "/"
	Login       = "/login"
	Register    = "/register"
	Chats       = "/chats"
	ChatRoom    = "/chat"
	Tasks       = "/tasks"
	Orders      = "/orders"
	Profile     = "/profile"
	EditProfile = "/profile/edit"
	SOS         = "/sos"
	Security    = "/profile/security"
	Settings    = "/profile/settings"
)

// Access says who may see a route.
type Access int

const (
	// PublicOnly routes are for anonymous users; signed-in users are sent to /chats.
	PublicOnly Access = iota + 1
	// Private routes need a signed-in user; anonymous users are sent to /login.
	Private
)

func (a Access) String() string {
	switch a {
	case PublicOnly:
		return "public"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Route is one entry of the route table.
type Route struct {
	Path   string
	Access Access
	// Nav routes show the bottom navigation bar.
	Nav bool
}

var table = []Route{
	{Path: Login, Access: PublicOnly},
	{Path: Register, Access: PublicOnly},
	{Path: Chats, Access: Private, Nav: true},
	{Path: ChatRoom, Access: Private},
	{Path: Tasks, Access: Private, Nav: true},
	{Path: Orders, Access: Private, Nav: true},
	{Path: Profile, Access: Private, Nav: true},
	{Path: EditProfile, Access: Private},
	{Path: SOS, Access: Private, Nav: true},
	{Path: Security, Access: Private},
	{Path: Settings, Access: Private},
}

// All returns the route table in declaration order.
func All() []Route {
	return append([]Route(nil), table...)
}

// Lookup finds the route registered for path, ignoring any query string.
func Lookup(path string) (Route, bool) {
	path, _ = Split(path)
	for _, r := range table {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve maps a navigation target onto the route to show. "/" and unknown
// paths fall through to /chats.
func Resolve(target string) Route {
	if r, ok := Lookup(target); ok {
		return r
	}
	r, _ := Lookup(Chats)
	return r
}

// Split separates a target such as "/chat?chatId=1" into path and query.
func Split(target string) (string, url.Values) {
	path, raw, found := strings.Cut(target, "?")
	if path == "" {
		path = Root
	}
	if !found {
		return path, url.Values{}
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return path, url.Values{}
	}
	return path, q
}

var pages = map[string]string{
	"Chats":            Chats,
	"ChatRoom":         ChatRoom,
	"Tasks":            Tasks,
	"Orders":           Orders,
	"Profile":          Profile,
	"EditProfile":      EditProfile,
	"SOS":              SOS,
	"SecuritySettings": Security,
	"AppSettings":      Settings,
}

// PageURL maps a page name to its path. Unknown names map to "/".
func PageURL(name string) string {
	if p, ok := pages[name]; ok {
		return p
	}
	return Root
}

// NavItem is one entry of the bottom navigation bar.
type NavItem struct {
	Page string
	Path string
}

// NavItems returns the bottom navigation bar in display order.
func NavItems() []NavItem {
	names := []string{"Chats", "Tasks", "Orders", "Profile", "SOS"}
	items := make([]NavItem, 0, len(names))
	for _, n := range names {
		items = append(items, NavItem{Page: n, Path: PageURL(n)})
	}
	return items
}

// ChatRoomURL builds the chat room target for a chat.
func ChatRoomURL(chatID, contactName string) string {
	q := url.Values{}
	q.Set("chatId", chatID)
	if contactName != "" {
		q.Set("contactName", contactName)
	}
	return PageURL("ChatRoom") + "?" + q.Encode()
}

// ParseChatRoom extracts the chat id and contact name from a chat room target.
func ParseChatRoom(target string) (chatID, contactName string) {
	_, q := Split(target)
	return q.Get("chatId"), q.Get("contactName")
}
