package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/sentinel/internal/cart"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/gate"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/outbox"
	"github.com/matheus3301/sentinel/internal/routes"
	"github.com/matheus3301/sentinel/internal/session"
	"github.com/matheus3301/sentinel/internal/timeline"
	"github.com/matheus3301/sentinel/internal/tui/model"
)

// errSignedOut is returned by commands that need a session when there is none.
var errSignedOut = errors.New("not signed in, run: sentinelctl login EMAIL PASSWORD")

type cli struct {
	ctx    context.Context
	client *client.Client
	gate   *gate.Gate
	sender *outbox.Sender
	vm     *model.ViewModel
	l      *i18n.Localizer
	loc    *time.Location
	json   bool
	out    io.Writer
}

func (c *cli) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

func usage(format string) error {
	return fmt.Errorf("%w: sentinelctl %s", errUsage, format)
}

func (c *cli) dispatch(name string, args []string) error {
	switch name {
	case "login":
		if len(args) != 2 {
			return usage("login EMAIL PASSWORD")
		}
		return c.login(args[0], args[1])
	case "register":
		if len(args) < 3 {
			return usage("register EMAIL PASSWORD NAME")
		}
		return c.register(args[0], args[1], strings.Join(args[2:], " "))
	case "logout":
		c.gate.Logout()
		return nil
	case "whoami":
		return c.whoami()
	case "sessions":
		return c.sessions()
	case "route":
		if len(args) != 1 {
			return usage("route TARGET")
		}
		return c.route(args[0])
	case "routes":
		return c.routes()
	}

	if err := c.requireUser(); err != nil {
		return err
	}
	switch name {
	case "find":
		if len(args) != 1 {
			return usage("find CODE")
		}
		return c.find(args[0])
	case "chats":
		return c.chats()
	case "chat-with":
		if len(args) != 1 {
			return usage("chat-with CODE")
		}
		return c.chatWith(args[0])
	case "messages":
		if len(args) != 1 {
			return usage("messages CHAT_ID")
		}
		return c.messages(args[0])
	case "send":
		return c.send(args)
	case "tasks":
		return c.tasks()
	case "task-add":
		if len(args) < 1 || len(args) > 2 {
			return usage("task-add TITLE [DESCRIPTION]")
		}
		desc := ""
		if len(args) == 2 {
			desc = args[1]
		}
		return c.taskAdd(args[0], desc)
	case "task-start":
		if len(args) != 1 {
			return usage("task-start ID")
		}
		return c.taskStart(args[0])
	case "task-done":
		if len(args) != 1 {
			return usage("task-done ID")
		}
		return c.taskDone(args[0])
	case "orders":
		return c.orders()
	case "order":
		return c.order(args)
	case "sos":
		return c.sos(strings.Join(args, " "))
	case "sos-list":
		return c.sosList()
	case "profile-update":
		return c.profileUpdate(args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", name)
	}
}

// requireUser restores the stored session.
func (c *cli) requireUser() error {
	if err := c.gate.Bootstrap(c.ctx); err != nil {
		return err
	}
	if c.gate.State() != gate.Authenticated {
		return errSignedOut
	}
	return nil
}

func (c *cli) login(email, password string) error {
	if err := c.gate.Login(c.ctx, email, password); err != nil {
		return err
	}
	return c.printUser(c.gate.User())
}

func (c *cli) register(email, password, fullName string) error {
	if err := c.gate.Register(c.ctx, email, password, fullName); err != nil {
		return err
	}
	return c.printUser(c.gate.User())
}

func (c *cli) whoami() error {
	if err := c.requireUser(); err != nil {
		return err
	}
	return c.printUser(c.gate.User())
}

func (c *cli) printUser(u *client.User) error {
	if c.json {
		outputJSON(u)
		return nil
	}
	fmt.Fprintf(c.stdout(), "Name:  %s\n", orDash(u.FullName))
	fmt.Fprintf(c.stdout(), "Email: %s\n", u.Email)
	fmt.Fprintf(c.stdout(), "Code:  %s\n", orDash(u.UserCode))
	if u.AvatarURL != "" {
		fmt.Fprintf(c.stdout(), "Photo: %s\n", u.AvatarURL)
	}
	return nil
}

func (c *cli) sessions() error {
	names, err := session.List()
	if err != nil {
		return err
	}
	if c.json {
		outputJSON(names)
		return nil
	}
	if len(names) == 0 {
		fmt.Fprintln(c.stdout(), "No sessions found.")
		return nil
	}
	for _, n := range names {
		fmt.Fprintf(c.stdout(), "%-20s %s\n", n, session.Dir(n))
	}
	return nil
}

// route shows where the TUI would take a navigation target.
func (c *cli) route(target string) error {
	if err := c.gate.Bootstrap(c.ctx); err != nil {
		return err
	}
	d := c.gate.Navigate(target)
	if c.json {
		outputJSON(map[string]string{
			"outcome": d.Outcome.String(),
			"target":  d.Target,
			"access":  d.Route.Access.String(),
		})
		return nil
	}
	fmt.Fprintf(c.stdout(), "%s %s (%s)\n", d.Outcome, d.Target, d.Route.Access)
	return nil
}

func (c *cli) routes() error {
	all := routes.All()
	if c.json {
		outputJSON(all)
		return nil
	}
	w := tabwriter.NewWriter(c.stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tACCESS\tNAV")
	for _, r := range all {
		nav := ""
		if r.Nav {
			nav = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Access, nav)
	}
	return w.Flush()
}

func (c *cli) find(code string) error {
	u, err := c.vm.FindUser(c.ctx, code)
	if client.IsNotFound(err) {
		return errors.New(c.l.T(i18n.ChatsUserMissing))
	}
	if err != nil {
		return err
	}
	return c.printUser(u)
}

func (c *cli) chats() error {
	if err := c.vm.LoadChats(c.ctx, true); err != nil {
		return err
	}
	chats := c.vm.GetChats()
	if c.json {
		outputJSON(chats)
		return nil
	}
	if len(chats) == 0 {
		fmt.Fprintln(c.stdout(), c.l.T(i18n.ChatsEmpty))
		return nil
	}
	w := tabwriter.NewWriter(c.stdout(), 0, 4, 2, ' ', 0)
	for _, ch := range chats {
		unread := ""
		if ch.UnreadCount > 0 {
			unread = strconv.Itoa(ch.UnreadCount)
		}
		online := ""
		if ch.IsOnline {
			online = "●"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t%s\n", ch.ID, online, ch.ContactName, oneLine(ch.LastMessage), ch.Time, unread)
	}
	return w.Flush()
}

func (c *cli) chatWith(code string) error {
	u, err := c.vm.FindUser(c.ctx, code)
	if client.IsNotFound(err) {
		return errors.New(c.l.T(i18n.ChatsUserMissing))
	}
	if err != nil {
		return err
	}
	chat, err := c.vm.StartChat(c.ctx, u.ID)
	if err != nil {
		return err
	}
	if c.json {
		outputJSON(chat)
		return nil
	}
	name := chat.ContactName
	if name == "" {
		name = u.FullName
	}
	fmt.Fprintf(c.stdout(), "%s %s\n", chat.ID, name)
	return nil
}

func (c *cli) messages(chatID string) error {
	if err := c.vm.LoadMessages(c.ctx, chatID, true); err != nil {
		return err
	}
	msgs := c.vm.GetMessages(chatID)
	if c.json {
		outputJSON(msgs)
		return nil
	}
	if len(msgs) == 0 {
		fmt.Fprintln(c.stdout(), c.l.T(i18n.ChatNoMessages))
		return nil
	}
	for _, g := range timeline.GroupByDate(msgs, c.loc, c.l.DayMonth) {
		fmt.Fprintf(c.stdout(), "── %s ──\n", g.Label)
		for _, m := range g.Messages {
			clock := ""
			if t, ok := timeline.MessageTime(m); ok {
				clock = c.l.Clock(t.In(c.loc))
			}
			fmt.Fprintf(c.stdout(), "%s  %s: %s\n", clock, m.SenderName, m.Text)
			if m.ImageURL != "" {
				fmt.Fprintf(c.stdout(), "       %s\n", m.ImageURL)
			}
		}
	}
	return nil
}

// send delivers a message right away rather than through the queue.
func (c *cli) send(args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	image := fs.String("image", "", "image file to attach")
	if err := fs.Parse(args); err != nil {
		return usage("send [-image PATH] CHAT_ID TEXT")
	}
	if fs.NArg() < 2 {
		return usage("send [-image PATH] CHAT_ID TEXT")
	}
	out, err := outbox.NewOutgoing(fs.Arg(0), c.gate.User().FullName, strings.Join(fs.Args()[1:], " "), *image)
	if err != nil {
		return err
	}
	msg, err := c.sender.Deliver(c.ctx, out)
	if errors.Is(err, outbox.ErrChatUpdate) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", c.l.T(i18n.ChatUpdateFailed))
	} else if err != nil {
		return err
	}
	if c.json {
		outputJSON(msg)
		return nil
	}
	fmt.Fprintln(c.stdout(), msg.ID)
	return nil
}

func (c *cli) tasks() error {
	if err := c.vm.LoadTasks(c.ctx, true); err != nil {
		return err
	}
	tasks := c.vm.GetTasks()
	if c.json {
		outputJSON(tasks)
		return nil
	}
	if len(tasks) == 0 {
		fmt.Fprintln(c.stdout(), c.l.T(i18n.TasksEmpty))
		return nil
	}
	w := tabwriter.NewWriter(c.stdout(), 0, 4, 2, ' ', 0)
	for _, t := range tasks {
		dur := ""
		if t.Duration > 0 {
			dur = (time.Duration(t.Duration) * time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, c.l.TaskStatus(t.Status), t.Title, dur)
	}
	return w.Flush()
}

func (c *cli) taskAdd(title, description string) error {
	t, err := c.vm.CreateTask(c.ctx, title, description)
	if err != nil {
		return err
	}
	return c.printTask(t)
}

func (c *cli) taskStart(id string) error {
	t, err := c.vm.StartTask(c.ctx, id)
	if err != nil {
		return err
	}
	return c.printTask(t)
}

// taskDone completes a task; its start time comes from the task list.
func (c *cli) taskDone(id string) error {
	if err := c.vm.LoadTasks(c.ctx, true); err != nil {
		return err
	}
	for _, t := range c.vm.GetTasks() {
		if t.ID != id {
			continue
		}
		done, err := c.vm.CompleteTask(c.ctx, t)
		if err != nil {
			return err
		}
		return c.printTask(done)
	}
	return fmt.Errorf("task %s not found", id)
}

func (c *cli) printTask(t *client.Task) error {
	if c.json {
		outputJSON(t)
		return nil
	}
	fmt.Fprintf(c.stdout(), "%s %s %s\n", t.ID, c.l.TaskStatus(t.Status), t.Title)
	return nil
}

func (c *cli) orders() error {
	if err := c.vm.LoadOrders(c.ctx, true); err != nil {
		return err
	}
	orders := c.vm.GetOrders()
	if c.json {
		outputJSON(orders)
		return nil
	}
	if len(orders) == 0 {
		fmt.Fprintln(c.stdout(), c.l.T(i18n.OrdersEmpty))
		return nil
	}
	w := tabwriter.NewWriter(c.stdout(), 0, 4, 2, ' ', 0)
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.OrderNumber, c.l.OrderStatus(o.Status), c.l.ItemCount(o.TotalItems))
	}
	return w.Flush()
}

func (c *cli) order(args []string) error {
	basket, err := parseItems(args)
	if err != nil {
		return err
	}
	o, err := c.vm.SubmitOrder(c.ctx, basket, cart.RandomOrderNumber)
	if err != nil {
		return err
	}
	if c.json {
		outputJSON(o)
		return nil
	}
	fmt.Fprintf(c.stdout(), "%s %s\n", c.l.T(i18n.OrdersSuccess), o.OrderNumber)
	return nil
}

// parseItems fills a cart from ITEM=QTY arguments. Items must be in the
// catalogue; repeated items add up.
func parseItems(args []string) (*cart.Cart, error) {
	known := make(map[string]bool)
	for _, cat := range cart.Catalog() {
		for _, item := range cat.Items {
			known[item] = true
		}
	}
	basket := cart.New()
	for _, arg := range args {
		item, qty, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, usage("order ITEM=QTY...")
		}
		if !known[item] {
			return nil, fmt.Errorf("unknown item %q", item)
		}
		n, err := strconv.Atoi(qty)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad quantity %q for %s", qty, item)
		}
		basket.Update(item, n)
	}
	if !basket.CanSubmit() {
		return nil, cart.ErrEmpty
	}
	return basket, nil
}

func (c *cli) sos(location string) error {
	alert, err := c.vm.SendSOS(c.ctx, location)
	if err != nil {
		return err
	}
	if c.json {
		outputJSON(alert)
		return nil
	}
	fmt.Fprintln(c.stdout(), c.l.T(i18n.SOSSent))
	return nil
}

func (c *cli) sosList() error {
	if err := c.vm.LoadAlerts(c.ctx, true); err != nil {
		return err
	}
	alerts := c.vm.GetAlerts()
	if c.json {
		outputJSON(alerts)
		return nil
	}
	w := tabwriter.NewWriter(c.stdout(), 0, 4, 2, ' ', 0)
	for _, a := range alerts {
		at := a.CreatedDate
		if t, ok := timeline.Parse(a.CreatedDate); ok {
			at = c.l.DayMonth(t.In(c.loc)) + " " + c.l.Clock(t.In(c.loc))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", at, c.l.SOSStatus(a.Status), orDash(a.Location))
	}
	return w.Flush()
}

func (c *cli) profileUpdate(args []string) error {
	fs := flag.NewFlagSet("profile-update", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	avatar := fs.String("avatar", "", "image file to upload as the avatar")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return usage("profile-update [-name N] [-avatar PATH]")
	}
	if *name == "" {
		*name = c.gate.User().FullName
	}
	u, err := c.vm.SaveProfile(c.ctx, *name, *avatar)
	if err != nil {
		return err
	}
	c.gate.SetUser(u)
	return c.printUser(u)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
