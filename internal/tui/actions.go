package tui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/sentinel/internal/cart"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/routes"
	"github.com/matheus3301/sentinel/internal/store"
	"github.com/matheus3301/sentinel/internal/tui/keys"
	"github.com/matheus3301/sentinel/internal/tui/model"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"go.uber.org/zap"
)

func (a *App) setupBindings() {
	a.registry.AddGlobal("command", &keys.Action{
		Key: tcell.KeyRune, Rune: ':',
		Description: "Command", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand) },
	})
	a.registry.AddGlobal("help", &keys.Action{
		Key: tcell.KeyRune, Rune: '?',
		Description: "Help", Visible: true,
		Handler: a.showHelp,
	})
	a.registry.AddGlobal("reload", &keys.Action{
		Key: tcell.KeyRune, Rune: 'r',
		Description: "Reload",
		Handler: func() { a.reload(true) },
	})
	a.registry.AddGlobal("quit", &keys.Action{
		Key: tcell.KeyRune, Rune: 'q',
		Description: "Quit", Visible: true,
		Handler: a.Stop,
	})
	for i := 1; i <= len(routes.NavItems()); i++ {
		n := i
		a.registry.AddGlobal(fmt.Sprintf("nav-%d", n), &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n),
			Handler: func() {
				if tab, ok := a.navBar.Tab(n); ok && a.gate.State() == gate.Authenticated {
					a.navigate(tab.Path)
				}
			},
		})
	}

	a.registry.AddView(routes.Chats, "open", &keys.Action{
		Key: tcell.KeyEnter, Handler: a.openSelectedChat,
	})
	a.registry.AddView(routes.Chats, "filter", &keys.Action{
		Key: tcell.KeyRune, Rune: '/',
		Handler: func() { a.showPrompt(ui.PromptFilter) },
	})
	a.registry.AddView(routes.Chats, "find", &keys.Action{
		Key: tcell.KeyRune, Rune: 'f',
		Handler: func() { a.ask(a.l.T(i18n.ChatsFindCode), a.findUser) },
	})

	a.registry.AddView(routes.ChatRoom, "compose", &keys.Action{
		Key: tcell.KeyRune, Rune: 'i',
		Handler: func() { a.app.SetFocus(a.room.Composer()) },
	})
	a.registry.AddView(routes.ChatRoom, "attach", &keys.Action{
		Key: tcell.KeyRune, Rune: 'a',
		Handler: func() { a.ask(a.l.T(i18n.ChatAttach), a.attach) },
	})
	a.registry.AddView(routes.ChatRoom, "detach", &keys.Action{
		Key: tcell.KeyRune, Rune: 'x',
		Handler: func() { a.room.SetAttachment("") },
	})

	a.registry.AddView(routes.Tasks, "new", &keys.Action{
		Key: tcell.KeyRune, Rune: 'n',
		Handler: func() { a.app.SetFocus(a.tasks.OpenForm()) },
	})
	a.registry.AddView(routes.Tasks, "start", &keys.Action{
		Key: tcell.KeyRune, Rune: 's', Handler: a.startTask,
	})
	a.registry.AddView(routes.Tasks, "complete", &keys.Action{
		Key: tcell.KeyRune, Rune: 'c', Handler: a.completeTask,
	})

	more := func() { a.orders.Change(1) }
	a.registry.AddView(routes.Orders, "more", &keys.Action{Key: tcell.KeyRune, Rune: '+', Handler: more})
	a.registry.AddView(routes.Orders, "more-eq", &keys.Action{Key: tcell.KeyRune, Rune: '=', Handler: more})
	a.registry.AddView(routes.Orders, "less", &keys.Action{
		Key: tcell.KeyRune, Rune: '-',
		Handler: func() { a.orders.Change(-1) },
	})
	a.registry.AddView(routes.Orders, "submit", &keys.Action{
		Key: tcell.KeyEnter, Handler: a.submitOrder,
	})

	a.registry.AddView(routes.Profile, "edit", &keys.Action{
		Key: tcell.KeyRune, Rune: 'e',
		Handler: func() { a.navigate(routes.EditProfile) },
	})
	a.registry.AddView(routes.Profile, "security", &keys.Action{
		Key: tcell.KeyRune, Rune: 's',
		Handler: func() { a.navigate(routes.Security) },
	})
	a.registry.AddView(routes.Profile, "settings", &keys.Action{
		Key: tcell.KeyRune, Rune: 'g',
		Handler: func() { a.navigate(routes.Settings) },
	})
	a.registry.AddView(routes.Profile, "logout", &keys.Action{
		Key: tcell.KeyRune, Rune: 'L', Handler: a.logout,
	})
}

func (a *App) setupCallbacks() {
	a.login.SetOnSubmit(func(email, password, _ string) {
		a.authenticate(a.login.SetBusy, func() error {
			return a.gate.Login(a.ctx, email, password)
		})
	})
	a.login.SetOnSwitch(func() { a.navigate(routes.Register) })
	a.register.SetOnSubmit(func(email, password, fullName string) {
		a.authenticate(a.register.SetBusy, func() error {
			return a.gate.Register(a.ctx, email, password, fullName)
		})
	})
	a.register.SetOnSwitch(func() { a.navigate(routes.Login) })

	a.room.SetOnSend(a.sendMessage)
	a.tasks.SetOnCreate(a.createTask)
	a.tasks.SetOnClose(func() { a.app.SetFocus(a.tasks.Table()) })
	a.sos.SetOnSend(a.sendSOS)
	a.edit.SetOnSave(a.saveProfile)
	a.settings.SetOnChange(a.savePreferences)

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text))
		case ui.PromptFilter:
			a.chats.SetFilter(text)
			a.updateChrome()
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.openPrompt()
}

// ask shows the prompt for one answer and hands it to fn.
func (a *App) ask(title string, fn func(string)) {
	a.prompt.Ask(title, func(text string) {
		a.hidePrompt()
		fn(text)
	})
	a.openPrompt()
}

func (a *App) openPrompt() {
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	if c, ok := a.components[a.pages.Current()]; ok {
		a.app.SetFocus(c)
	}
}

func (a *App) runCommand(cmd Command) {
	if target, ok := cmd.Target(); ok {
		a.navigate(target)
		return
	}
	switch cmd.Name {
	case "q", "quit":
		a.Stop()
	case "h", "help":
		a.showHelp()
	case "r", "reload":
		a.reload(true)
	case "logout":
		a.logout()
	case "find":
		a.findUser(cmd.Args)
	case "attach":
		a.attach(cmd.Args)
	case "go":
		a.flash.Warn("unknown route: " + cmd.Args)
	default:
		a.flash.Warn("unknown command: " + cmd.Name)
	}
}

// start marks action as in flight. It reports false if it already is.
func (a *App) start(action string) bool {
	if a.busy[action] {
		return false
	}
	a.busy[action] = true
	return true
}

func (a *App) done(action string) {
	delete(a.busy, action)
}

// async runs fn off the UI goroutine and hands its error to then on it.
// Only one call per action runs at a time.
func (a *App) async(action string, fn func() error, then func(err error)) {
	if !a.start(action) {
		return
	}
	go func() {
		err := fn()
		if err != nil && a.ctx.Err() == nil {
			a.log.Warn(action, zap.Error(err))
		}
		a.app.QueueUpdateDraw(func() {
			a.done(action)
			then(err)
		})
	}()
}

// authenticate runs a sign-in. The session event that follows a success
// moves the UI on.
func (a *App) authenticate(setBusy func(bool), fn func() error) {
	if a.busy["auth"] {
		return
	}
	setBusy(true)
	a.async("auth", fn, func(err error) {
		setBusy(false)
		if err == nil {
			return
		}
		if errors.Is(err, gate.ErrMissingField) {
			a.flash.Warn(a.l.T(i18n.ErrRequired))
			return
		}
		a.flash.Err(err)
	})
}

func (a *App) logout() {
	a.gate.Logout()
}

func (a *App) openSelectedChat() {
	chat, ok := a.chats.SelectedChat()
	if !ok {
		return
	}
	a.navigate(routes.ChatRoomURL(chat.ID, chat.ContactName))
}

// findUser looks a user up by code and opens a chat with them.
func (a *App) findUser(code string) {
	var chat *client.Chat
	a.async("find", func() error {
		user, err := a.vm.FindUser(a.ctx, code)
		if err != nil {
			return err
		}
		chat, err = a.vm.StartChat(a.ctx, user.ID)
		if err != nil {
			return err
		}
		if chat.ContactName == "" {
			chat.ContactName = user.FullName
		}
		return nil
	}, func(err error) {
		switch {
		case client.IsNotFound(err):
			a.flash.Warn(a.l.T(i18n.ChatsUserMissing))
		case errors.Is(err, model.ErrCodeRequired):
			a.flash.Warn(a.l.T(i18n.ErrRequired))
		case err != nil:
			a.flash.Err(err)
		default:
			a.navigate(routes.ChatRoomURL(chat.ID, chat.ContactName))
		}
	})
}

func (a *App) attach(path string) {
	if a.pages.Current() != routes.ChatRoom {
		a.flash.Warn("attach works in a chat room")
		return
	}
	a.room.SetAttachment(path)
	a.app.SetFocus(a.room.Composer())
}

func (a *App) sendMessage(text, attachment string) bool {
	name := ""
	if u := a.gate.User(); u != nil {
		name = u.FullName
	}
	if _, err := a.vm.SendMessage(a.room.ChatID(), name, text, attachment); err != nil {
		a.flash.Err(err)
		return false
	}
	a.render()
	return true
}

func (a *App) createTask(title, description string) {
	a.async("task-create", func() error {
		_, err := a.vm.CreateTask(a.ctx, title, description)
		return err
	}, func(err error) {
		switch {
		case errors.Is(err, model.ErrTitleRequired):
			a.flash.Warn(a.l.T(i18n.ErrRequired))
		case err != nil:
			a.flash.Err(err)
		default:
			a.tasks.CloseForm()
		}
	})
}

func (a *App) startTask() {
	task, ok := a.tasks.SelectedTask()
	if !ok || task.Status != client.TaskPending {
		return
	}
	a.async("task-"+task.ID, func() error {
		_, err := a.vm.StartTask(a.ctx, task.ID)
		return err
	}, a.flashErr)
}

func (a *App) completeTask() {
	task, ok := a.tasks.SelectedTask()
	if !ok || task.Status != client.TaskInProgress {
		return
	}
	a.async("task-"+task.ID, func() error {
		_, err := a.vm.CompleteTask(a.ctx, task)
		return err
	}, a.flashErr)
}

// submitOrder builds the order on the UI goroutine, which owns the cart,
// and clears the cart only once the backend accepted it.
func (a *App) submitOrder() {
	c := a.orders.Cart()
	in, err := c.Order(a.numbers())
	if errors.Is(err, cart.ErrEmpty) {
		return
	}
	if err != nil {
		a.flash.Err(err)
		return
	}
	var order *client.Order
	a.async("order", func() error {
		var err error
		order, err = a.vm.PlaceOrder(a.ctx, in)
		return err
	}, func(err error) {
		if err != nil {
			a.flash.Err(err)
			return
		}
		c.Reset()
		a.orders.Refresh()
		a.flash.Info(a.l.T(i18n.OrdersSuccess) + " " + order.OrderNumber)
	})
}

func (a *App) sendSOS(location string) {
	a.async("sos", func() error {
		_, err := a.vm.SendSOS(a.ctx, location)
		return err
	}, func(err error) {
		if err != nil {
			a.flash.Err(err)
			return
		}
		a.sos.ClearLocation()
		a.flash.Info(a.l.T(i18n.SOSSent))
	})
}

func (a *App) saveProfile(fullName, avatarPath string) {
	if a.busy["profile"] {
		return
	}
	var user *client.User
	a.edit.SetSaving(true)
	a.async("profile", func() error {
		var err error
		user, err = a.vm.SaveProfile(a.ctx, fullName, avatarPath)
		return err
	}, func(err error) {
		a.edit.SetSaving(false)
		switch {
		case errors.Is(err, model.ErrNameRequired):
			a.flash.Warn(a.l.T(i18n.ErrRequired))
		case err != nil:
			a.flash.Err(err)
		default:
			a.gate.SetUser(user)
			a.back()
		}
	})
}

func (a *App) savePreferences(p store.Preferences) {
	if err := a.vm.SavePreferences(p); err != nil {
		a.flash.Err(err)
		return
	}
	if p.DarkMode != a.theme.Dark {
		a.flash.Info(a.l.T(i18n.DarkMode) + ": restart to apply")
	}
}

func (a *App) flashErr(err error) {
	if err != nil {
		a.flash.Err(err)
	}
}
