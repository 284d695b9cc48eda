package tui

import (
	"strings"

	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/query"
	"github.com/matheus3301/sentinel/internal/routes"
	"go.uber.org/zap"
)

// navigate opens target through the session gate. Nav and auth routes
// replace the page stack; the rest stack on top of the current page.
func (a *App) navigate(target string) {
	d := a.gate.Navigate(target)
	switch d.Outcome {
	case gate.Wait:
		a.pending = target
		a.pages.Reset(pageLoading)
		a.app.SetFocus(a.loading)
		return
	case gate.Redirect:
		a.log.Warn("redirect loop", zap.String("target", target), zap.String("last", d.Target))
		return
	}

	path := d.Route.Path
	if path == routes.ChatRoom {
		if chatID, _ := routes.ParseChatRoom(d.Target); chatID == "" {
			a.navigate(routes.Chats)
			return
		}
	}
	a.log.Debug("navigate", zap.String("target", target), zap.String("render", d.Target))

	a.target = d.Target
	if rootPage(d.Route) {
		a.pages.Reset(path)
	} else {
		a.pages.Push(path)
	}
	a.enter(path)
}

// rootPage reports whether a route starts a new page stack.
func rootPage(r routes.Route) bool {
	return r.Nav || r.Access == routes.PublicOnly
}

// back pops the page stack and re-enters the page below.
func (a *App) back() {
	if a.pages.Pop() == "" {
		return
	}
	page := a.pages.Current()
	if page != pageHelp {
		if page == routes.ChatRoom {
			a.target = routes.ChatRoomURL(a.room.ChatID(), "")
		} else {
			a.target = page
		}
	}
	a.enter(page)
}

// showHelp stacks the help page over whatever is open.
func (a *App) showHelp() {
	if a.pages.Current() == pageHelp || a.pages.Current() == pageLoading {
		return
	}
	a.pages.Push(pageHelp)
	a.app.SetFocus(a.help)
}

// enter prepares page for display: it fills the view from what is already
// loaded, starts a background load and focuses the view.
func (a *App) enter(page string) {
	switch page {
	case routes.Login:
		a.login.Reset()
	case routes.Register:
		a.register.Reset()
	case routes.ChatRoom:
		chatID, name := routes.ParseChatRoom(a.target)
		if chatID != a.room.ChatID() || name != "" {
			a.room.SetChat(chatID, name)
		}
	case routes.Orders:
		a.orders.Refresh()
	case routes.EditProfile:
		a.edit.Load(a.gate.User())
	case routes.Settings:
		if p, err := a.vm.Preferences(); err != nil {
			a.flash.Err(err)
		} else {
			a.settings.Load(p)
		}
	}
	a.render()
	a.reload(false)

	if c, ok := a.components[page]; ok {
		a.app.SetFocus(c)
	}
	a.updateChrome()
}

// render fills the current page from the view model.
func (a *App) render() {
	switch a.pages.Current() {
	case routes.Chats:
		a.chats.Update(a.vm.GetChats())
	case routes.ChatRoom:
		chatID := a.room.ChatID()
		a.room.Update(a.vm.GetMessages(chatID), a.vm.Pending(chatID))
	case routes.Tasks:
		a.tasks.Update(a.vm.GetTasks())
	case routes.Orders:
		a.orders.UpdateOrders(a.vm.GetOrders())
	case routes.SOS:
		a.sos.Update(a.vm.GetAlerts())
	case routes.Profile:
		a.profile.Update(a.gate.User())
	}
	a.updateChrome()
}

// reload fetches the current page's data in the background. force skips
// cached values.
func (a *App) reload(force bool) {
	if a.gate.State() != gate.Authenticated {
		return
	}
	var load func() error
	switch a.pages.Current() {
	case routes.Chats:
		load = func() error { return a.vm.LoadChats(a.ctx, force) }
	case routes.ChatRoom:
		chatID := a.room.ChatID()
		load = func() error { return a.vm.LoadMessages(a.ctx, chatID, force) }
	case routes.Tasks:
		load = func() error { return a.vm.LoadTasks(a.ctx, force) }
	case routes.Orders:
		load = func() error { return a.vm.LoadOrders(a.ctx, force) }
	case routes.SOS:
		load = func() error { return a.vm.LoadAlerts(a.ctx, force) }
	case routes.Profile:
		if !force {
			return
		}
		load = func() error { return a.gate.Refresh(a.ctx) }
	default:
		return
	}
	target := a.target
	go func() {
		if err := load(); err != nil && a.ctx.Err() == nil {
			a.log.Warn("reload", zap.String("target", target), zap.Error(err))
			a.app.QueueUpdateDraw(func() { a.flash.Err(err) })
			return
		}
		a.app.QueueUpdateDraw(a.render)
	}()
}

// reloadKey reports whether an invalidated cache prefix covers what the
// current page shows.
func (a *App) reloadKey(prefix string) bool {
	var key string
	switch a.pages.Current() {
	case routes.Chats:
		key = query.KeyChats
	case routes.ChatRoom:
		key = query.Messages(a.room.ChatID())
	case routes.Tasks:
		key = query.KeyTasks
	case routes.Orders:
		key = query.KeyOrders
	case routes.SOS:
		key = query.KeySOS
	default:
		return false
	}
	return covers(prefix, key)
}

func covers(prefix, key string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}
