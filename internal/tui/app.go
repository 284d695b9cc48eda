package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/sentinel/internal/bus"
	"github.com/matheus3301/sentinel/internal/cart"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/query"
	"github.com/matheus3301/sentinel/internal/routes"
	"github.com/matheus3301/sentinel/internal/tui/keys"
	"github.com/matheus3301/sentinel/internal/tui/model"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/matheus3301/sentinel/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Pages that are not routes.
const (
	pageLoading = "loading"
	pageHelp    = "help"
)

// Deps are the services the TUI runs on.
type Deps struct {
	Client    *client.Client
	Gate      *gate.Gate
	Cache     *query.Cache
	Outbox    model.Outbox
	Prefs     model.PreferenceStore
	Bus       *bus.Bus
	Localizer *i18n.Localizer
	Location  *time.Location
	Logger    *zap.Logger
	Session   string
	// Refresh is how often the open screen reloads from the backend.
	Refresh time.Duration
	// Numbers generates order numbers. Defaults to cart.RandomOrderNumber.
	Numbers cart.NumberFunc
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	root     *tview.Flex
	pages    *ui.Pages
	vm       *model.ViewModel
	gate     *gate.Gate
	bus      *bus.Bus
	client   *client.Client
	registry *keys.Registry
	theme    *ui.Theme
	l        *i18n.Localizer
	loc      *time.Location
	log      *zap.Logger
	session  string
	refresh  time.Duration
	numbers  cart.NumberFunc

	info      *ui.SessionInfo
	menu      *ui.Menu
	crumbs    *ui.Crumbs
	flash     *ui.FlashModel
	flashBar  *ui.FlashBar
	prompt    *ui.Prompt
	navBar    *ui.NavBar
	statusBar *views.StatusBar

	loading  *views.LoadingView
	login    *views.AuthForm
	register *views.AuthForm
	chats    *views.ChatsView
	room     *views.ChatRoom
	tasks    *views.TasksView
	orders   *views.OrdersView
	sos      *views.SOSView
	profile  *views.ProfileView
	edit     *views.EditProfileView
	security *views.SecurityView
	settings *views.SettingsView
	help     *views.HelpView

	components map[string]ui.Component

	// target is the current route target, query string included.
	target string
	// pending is the target asked for while the gate was still loading.
	pending string
	// busy holds the mutations in flight, one per action.
	busy map[string]bool

	events      <-chan bus.Event
	unsubscribe func()

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(d Deps) *App {
	ctx, cancel := context.WithCancel(context.Background())
	log := d.Logger.Named("tui")

	theme := ui.DefaultTheme()
	if p, err := d.Prefs.Preferences(); err != nil {
		log.Warn("load preferences", zap.Error(err))
	} else {
		theme = ui.ThemeFor(p.DarkMode)
	}
	numbers := d.Numbers
	if numbers == nil {
		numbers = cart.RandomOrderNumber
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	l := d.Localizer

	a := &App{
		app:       tview.NewApplication(),
		pages:     ui.NewPages(),
		vm:        model.NewViewModel(d.Client, d.Cache, d.Outbox, d.Prefs),
		gate:      d.Gate,
		bus:       d.Bus,
		client:    d.Client,
		registry:  keys.NewRegistry(),
		theme:     theme,
		l:         l,
		loc:       loc,
		log:       log,
		session:   d.Session,
		refresh:   d.Refresh,
		numbers:   numbers,
		info:      ui.NewSessionInfo(theme),
		menu:      ui.NewMenu(theme),
		crumbs:    ui.NewCrumbs(theme),
		flash:     ui.NewFlashModel(),
		flashBar:  ui.NewFlashBar(theme),
		prompt:    ui.NewPrompt(theme),
		navBar:    ui.NewNavBar(theme, navTabs(l)),
		statusBar: views.NewStatusBar(theme, loc),
		loading:   views.NewLoadingView(theme, l),
		login:     views.NewLoginView(theme, l),
		register:  views.NewRegisterView(theme, l),
		chats:     views.NewChatsView(theme, l),
		room:      views.NewChatRoom(theme, l, loc),
		tasks:     views.NewTasksView(theme, l, loc),
		orders:    views.NewOrdersView(theme, l, loc, cart.New()),
		sos:       views.NewSOSView(theme, l, loc),
		profile:   views.NewProfileView(theme, l),
		edit:      views.NewEditProfileView(theme, l),
		security:  views.NewSecurityView(theme, l),
		settings:  views.NewSettingsView(theme, l),
		help:      views.NewHelpView(theme, l),
		busy:      make(map[string]bool),
		ctx:       ctx,
		cancel:    cancel,
	}

	// Subscribe before the gate bootstraps so the first transition is seen.
	a.events, a.unsubscribe = d.Bus.Subscribe("", 64)

	a.statusBar.SetSession(d.Session)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.navigate(routes.Root)

	return a
}

func navTabs(l *i18n.Localizer) []ui.NavTab {
	labels := map[string]string{
		routes.Chats:   l.T(i18n.NavChats),
		routes.Tasks:   l.T(i18n.NavTasks),
		routes.Orders:  l.T(i18n.NavOrders),
		routes.Profile: l.T(i18n.NavProfile),
		routes.SOS:     l.T(i18n.NavSOS),
	}
	var tabs []ui.NavTab
	for _, item := range routes.NavItems() {
		tabs = append(tabs, ui.NavTab{Path: item.Path, Label: labels[item.Path]})
	}
	return tabs
}

func (a *App) setupLayout() {
	a.components = map[string]ui.Component{
		pageLoading:        a.loading,
		pageHelp:           a.help,
		routes.Login:       a.login,
		routes.Register:    a.register,
		routes.Chats:       a.chats,
		routes.ChatRoom:    a.room,
		routes.Tasks:       a.tasks,
		routes.Orders:      a.orders,
		routes.SOS:         a.sos,
		routes.Profile:     a.profile,
		routes.EditProfile: a.edit,
		routes.Security:    a.security,
		routes.Settings:    a.settings,
	}
	for name, c := range a.components {
		a.pages.AddPage(name, c, true, false)
	}
	a.pages.SetOnChange(func(stack []string) {
		titles := make([]string, 0, len(stack))
		for _, name := range stack {
			if c, ok := a.components[name]; ok {
				titles = append(titles, c.Name())
			}
		}
		a.crumbs.Update(titles)
		a.updateChrome()
	})

	header := tview.NewFlex().
		AddItem(ui.NewLogo(a.theme, a.l.T(i18n.AppTitle)), 26, 0, false).
		AddItem(a.info, 0, 1, false).
		AddItem(a.menu, 0, 2, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.navBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)
	a.root.SetBackgroundColor(a.theme.BgColor)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}
		if a.app.GetFocus() == a.prompt {
			return event
		}
		if event.Key() == tcell.KeyEscape {
			a.escape()
			return nil
		}
		// Let form widgets handle their own keys.
		switch a.app.GetFocus().(type) {
		case *tview.InputField, *tview.Button, *tview.Checkbox:
			return event
		}
		if a.registry.HandleEvent(a.pages.Current(), event) {
			return nil
		}
		return event
	})

	a.app.SetRoot(a.root, true)
}

// escape leaves the innermost mode: composer, form, filter, then the page.
func (a *App) escape() {
	page := a.pages.Current()
	switch {
	case page == routes.ChatRoom && a.app.GetFocus() == a.room.Composer():
		a.app.SetFocus(a.room.Messages())
	case page == routes.Tasks && a.tasks.FormOpen():
		a.tasks.CloseForm()
	case page == routes.Chats && a.chats.Filter() != "":
		a.chats.SetFilter("")
		a.updateChrome()
	default:
		a.back()
	}
}

// updateChrome refreshes everything around the current page.
func (a *App) updateChrome() {
	page := a.pages.Current()

	var hints []ui.MenuHint
	if c, ok := a.components[page]; ok {
		hints = append(hints, c.Hints()...)
	}
	if a.gate.State() == gate.Authenticated {
		hints = append(hints, ui.MenuHint{Key: "1-5", Description: "Navigate", Numeric: true})
	}
	for _, h := range a.registry.Hints(page) {
		hints = append(hints, ui.MenuHint{Key: h.Key, Description: h.Description})
	}
	a.menu.Update(hints)

	path, _ := routes.Split(a.target)
	if r, ok := routes.Lookup(path); ok && r.Nav && page == path {
		a.navBar.Update(path)
	} else {
		a.navBar.Update("")
	}

	data := &ui.SessionData{
		Session: a.session,
		Backend: a.client.BaseURL(),
		State:   string(a.gate.State()),
		Chats:   len(a.vm.GetChats()),
		Unread:  a.vm.UnreadTotal(),
	}
	if u := a.gate.User(); u != nil {
		data.User = u.FullName
		data.UserCode = u.UserCode
	}
	a.info.Update(data)
	a.statusBar.SetState(data.State)
	a.statusBar.SetPending(len(a.vm.Pending(a.room.ChatID())))
}

// Run starts the TUI event loop. It blocks until the user quits.
func (a *App) Run() error {
	go a.bootstrap()
	go a.watchEvents()
	go a.watchRefresh()
	go a.watchFlash()
	go a.refreshLoop()
	return a.app.Run()
}

// Stop stops the TUI application.
func (a *App) Stop() {
	a.cancel()
	a.unsubscribe()
	a.app.Stop()
}

func (a *App) bootstrap() {
	if err := a.gate.Bootstrap(a.ctx); err != nil {
		a.log.Warn("bootstrap session", zap.Error(err))
	}
}

// refreshLoop reloads the open screen and expires flash messages.
func (a *App) refreshLoop() {
	interval := a.refresh
	if interval <= 0 {
		interval = 30 * time.Second
	}
	reload := time.NewTicker(interval)
	defer reload.Stop()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-reload.C:
			a.app.QueueUpdate(func() { a.reload(true) })
		case <-tick.C:
			a.app.QueueUpdateDraw(func() {
				a.flashBar.Update(a.flash.GetMessage())
			})
		}
	}
}

func (a *App) watchRefresh() {
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.vm.RefreshCh():
			a.app.QueueUpdateDraw(a.render)
		}
	}
}

func (a *App) watchFlash() {
	ch := a.flash.Watch()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ch:
			a.app.QueueUpdateDraw(func() {
				a.flashBar.Update(a.flash.GetMessage())
			})
		}
	}
}
