package views

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatsView is the chat list.
type ChatsView struct {
	*tview.Table
	theme   *ui.Theme
	l       *i18n.Localizer
	chats   []client.Chat
	visible []client.Chat
	filter  string
}

// NewChatsView creates the chat list table.
func NewChatsView(theme *ui.Theme, l *i18n.Localizer) *ChatsView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	cv := &ChatsView{
		Table: table,
		theme: theme,
		l:     l,
	}
	cv.render()
	return cv
}

// Name implements Component.
func (cv *ChatsView) Name() string { return cv.l.T(i18n.ChatsTitle) }

// Hints implements Component.
func (cv *ChatsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "f", Description: "Find by code"},
	}
}

// Update refreshes the chat list with new data.
func (cv *ChatsView) Update(chats []client.Chat) {
	cv.chats = chats
	cv.render()
}

// SetFilter sets the contact name filter and re-renders.
func (cv *ChatsView) SetFilter(filter string) {
	cv.filter = filter
	cv.render()
}

// Filter returns the active filter.
func (cv *ChatsView) Filter() string {
	return cv.filter
}

// filterChats keeps chats whose contact name contains filter, ignoring case.
func filterChats(chats []client.Chat, filter string) []client.Chat {
	if filter == "" {
		return chats
	}
	var out []client.Chat
	for _, c := range chats {
		if matchFold(c.ContactName, filter) {
			out = append(out, c)
		}
	}
	return out
}

func (cv *ChatsView) render() {
	cv.Clear()

	cv.visible = filterChats(cv.chats, cv.filter)
	for i, chat := range cv.visible {
		row := i
		name := chat.ContactName
		if name == "" {
			name = cv.l.T(i18n.ContactFallback)
		}
		initials := i18n.Initials(chat.ContactName, i18n.ContactInitials)
		marker := tview.NewTableCell(" " + initials).SetTextColor(cv.theme.CounterColor)
		if chat.IsOnline {
			marker.SetText("●" + initials).SetTextColor(cv.theme.OnlineColor)
		}
		unread := tview.NewTableCell("").SetAlign(tview.AlignRight)
		if chat.UnreadCount > 0 {
			unread.SetText(" " + strconv.Itoa(chat.UnreadCount) + " ").
				SetTextColor(cv.theme.TableCursorFg).
				SetBackgroundColor(cv.theme.UnreadColor)
		}

		cv.SetCell(row, 0, marker)
		cv.SetCell(row, 1, tview.NewTableCell(" "+oneLine(name)).SetExpansion(1).SetTextColor(cv.theme.FgColor))
		cv.SetCell(row, 2, tview.NewTableCell(" "+oneLine(chat.LastMessage)).SetExpansion(2).SetMaxWidth(48).SetTextColor(cv.theme.MutedColor))
		cv.SetCell(row, 3, tview.NewTableCell(" "+oneLine(chat.Time)).SetTextColor(cv.theme.FgColor).SetAlign(tview.AlignRight))
		cv.SetCell(row, 4, unread)
	}
	if len(cv.visible) == 0 {
		cv.SetCell(0, 1, tview.NewTableCell(" "+cv.l.T(i18n.ChatsEmpty)).SetSelectable(false).SetTextColor(cv.theme.MutedColor))
	}

	if cv.filter != "" {
		cv.SetTitle(fmt.Sprintf(" %s (%d/%d) /%s ", cv.l.T(i18n.ChatsTitle), len(cv.visible), len(cv.chats), tview.Escape(cv.filter)))
	} else {
		cv.SetTitle(fmt.Sprintf(" %s (%d) ", cv.l.T(i18n.ChatsTitle), len(cv.chats)))
	}
}

// SelectedChat returns the chat under the cursor.
func (cv *ChatsView) SelectedChat() (client.Chat, bool) {
	idx, _ := cv.GetSelection()
	if idx < 0 || idx >= len(cv.visible) {
		return client.Chat{}, false
	}
	return cv.visible[idx], true
}
