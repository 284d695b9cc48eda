package tui

import (
	"strings"

	"github.com/matheus3301/sentinel/internal/routes"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// commandPages maps navigation commands to page names.
var commandPages = map[string]string{
	"chats":    "Chats",
	"c":        "Chats",
	"tasks":    "Tasks",
	"t":        "Tasks",
	"orders":   "Orders",
	"o":        "Orders",
	"profile":  "Profile",
	"p":        "Profile",
	"sos":      "SOS",
	"edit":     "EditProfile",
	"security": "SecuritySettings",
	"settings": "AppSettings",
}

// Target returns the route path a navigation command opens.
func (c Command) Target() (string, bool) {
	if c.Name == "go" {
		path, _ := routes.Split(c.Args)
		if _, ok := routes.Lookup(path); ok {
			return c.Args, true
		}
		return "", false
	}
	page, ok := commandPages[c.Name]
	if !ok {
		return "", false
	}
	return routes.PageURL(page), true
}
