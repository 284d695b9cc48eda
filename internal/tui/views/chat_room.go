package views

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/outbox"
	"github.com/matheus3301/sentinel/internal/timeline"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatRoom displays one chat's messages grouped by day, and a composer.
type ChatRoom struct {
	*tview.Flex
	theme    *ui.Theme
	l        *i18n.Localizer
	loc      *time.Location
	messages *tview.TextView
	composer *tview.InputField

	chatID      string
	contactName string
	attachment  string
	onSend      func(text, attachment string) bool
}

// NewChatRoom creates a new chat room view.
func NewChatRoom(theme *ui.Theme, l *i18n.Localizer, loc *time.Location) *ChatRoom {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0).
		SetPlaceholder(l.T(i18n.MessagePlacehold))
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	cr := &ChatRoom{
		Flex:     flex,
		theme:    theme,
		l:        l,
		loc:      loc,
		messages: messages,
		composer: composer,
	}
	cr.renderComposerTitle()

	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			cr.submit()
		}
	})

	return cr
}

// Name implements Component.
func (cr *ChatRoom) Name() string {
	if cr.contactName != "" {
		return cr.contactName
	}
	return cr.l.T(i18n.ContactFallback)
}

// Hints implements Component.
func (cr *ChatRoom) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "a", Description: "Attach image"},
		{Key: "x", Description: "Drop attachment"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetChat switches the room to another chat. A blank contact name falls
// back to the generic contact label.
func (cr *ChatRoom) SetChat(chatID, contactName string) {
	if chatID != cr.chatID {
		cr.messages.Clear()
		cr.composer.SetText("")
		cr.SetAttachment("")
	}
	cr.chatID = chatID
	cr.contactName = contactName
	cr.messages.SetTitle(fmt.Sprintf(" %s ", tview.Escape(cr.Name())))
}

// ChatID returns the open chat.
func (cr *ChatRoom) ChatID() string {
	return cr.chatID
}

// SetOnSend sets the callback when a message is submitted. The composer
// is cleared only when fn reports the message was accepted.
func (cr *ChatRoom) SetOnSend(fn func(text, attachment string) bool) {
	cr.onSend = fn
}

func (cr *ChatRoom) submit() {
	if cr.onSend == nil {
		return
	}
	text := cr.composer.GetText()
	if strings.TrimSpace(text) == "" {
		return
	}
	if !cr.onSend(text, cr.attachment) {
		return
	}
	cr.composer.SetText("")
	cr.SetAttachment("")
}

// SetAttachment sets the local image file sent with the next message.
func (cr *ChatRoom) SetAttachment(path string) {
	cr.attachment = strings.TrimSpace(path)
	cr.renderComposerTitle()
}

func (cr *ChatRoom) renderComposerTitle() {
	title := " " + cr.l.T(i18n.ActionSend) + " (i) "
	if cr.attachment != "" {
		title = fmt.Sprintf(" %s: %s ", cr.l.T(i18n.ChatAttach), filepath.Base(cr.attachment))
	}
	cr.composer.SetTitle(tview.Escape(title))
}

// Update renders the messages of the open chat followed by pending ones.
func (cr *ChatRoom) Update(msgs []client.Message, pending []outbox.Outgoing) {
	cr.messages.Clear()
	groups := timeline.GroupByDate(msgs, cr.loc, cr.l.DayMonth)
	_, _ = fmt.Fprint(cr.messages, renderThread(groups, pending, cr.theme, cr.l, cr.loc))
	cr.messages.ScrollToEnd()
}

// renderThread renders date groups as headed blocks of messages.
func renderThread(groups []timeline.Group, pending []outbox.Outgoing, theme *ui.Theme, l *i18n.Localizer, loc *time.Location) string {
	if len(groups) == 0 && len(pending) == 0 {
		return fmt.Sprintf("\n[%s]%s[-]\n", ui.Tag(theme.MutedColor), tview.Escape(l.T(i18n.ChatNoMessages)))
	}

	var b strings.Builder
	dateColor := ui.Tag(theme.DateColor)
	for _, g := range groups {
		if g.Label != "" {
			fmt.Fprintf(&b, "[%s]── %s ──[-]\n\n", dateColor, tview.Escape(g.Label))
		}
		for _, m := range g.Messages {
			writeMessage(&b, m, theme, l, loc)
		}
	}
	for _, p := range pending {
		fmt.Fprintf(&b, "[%s::d]%s · …[-:-:-]\n[::d]%s[-:-:-]\n\n",
			ui.Tag(theme.OutgoingColor), clean(p.SenderName), clean(p.Text))
	}
	return b.String()
}

func writeMessage(b *strings.Builder, m client.Message, theme *ui.Theme, l *i18n.Localizer, loc *time.Location) {
	color := ui.Tag(theme.FgColor)
	if m.IsOutgoing {
		color = ui.Tag(theme.OutgoingColor)
	}
	clock := ""
	if t, ok := timeline.MessageTime(m); ok {
		clock = l.Clock(t.In(loc))
	}
	fmt.Fprintf(b, "[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n", color, clean(m.SenderName), clock, clean(m.Text))
	if m.ImageURL != "" {
		fmt.Fprintf(b, "[::d]%s: %s[-:-:-]\n", clean(l.T(i18n.ChatAttach)), clean(m.ImageURL))
	}
	b.WriteString("\n")
}

// Messages returns the messages text view (for focus management).
func (cr *ChatRoom) Messages() *tview.TextView {
	return cr.messages
}

// Composer returns the composer input field (for focus management).
func (cr *ChatRoom) Composer() *tview.InputField {
	return cr.composer
}
