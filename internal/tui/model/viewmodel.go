package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matheus3301/sentinel/internal/cart"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/outbox"
	"github.com/matheus3301/sentinel/internal/query"
	"github.com/matheus3301/sentinel/internal/store"
	"github.com/matheus3301/sentinel/internal/timeline"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = errors.New("task title is required")
	// ErrCodeRequired is returned when a user search has no code.
	ErrCodeRequired = errors.New("user code is required")
	// ErrNameRequired is returned when a profile is saved without a name.
	ErrNameRequired = errors.New("full name is required")
)

// Outbox queues chat messages for delivery. *outbox.Sender implements it.
type Outbox interface {
	Enqueue(chatID, senderName, text, attachment string) (string, error)
	Pending(chatID string) []outbox.Outgoing
}

// PreferenceStore persists app settings. *store.DB implements it.
type PreferenceStore interface {
	Preferences() (store.Preferences, error)
	SavePreferences(p store.Preferences) error
}

// ViewModel caches backend state for the screens and signals UI refreshes.
// Reads go through the query cache; mutations invalidate the keys they touch.
type ViewModel struct {
	mu sync.RWMutex

	client *client.Client
	cache  *query.Cache
	outbox Outbox
	prefs  PreferenceStore
	now    func() time.Time

	Chats    []client.Chat
	Messages map[string][]client.Message // by chat ID
	Tasks    []client.Task
	Orders   []client.Order
	Alerts   []client.SOSAlert

	refreshCh chan struct{}
}

// NewViewModel creates a view model over the backend client.
func NewViewModel(c *client.Client, cache *query.Cache, ob Outbox, prefs PreferenceStore) *ViewModel {
	return &ViewModel{
		client:    c,
		cache:     cache,
		outbox:    ob,
		prefs:     prefs,
		now:       time.Now,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// load reads key through the cache. force skips a cached value.
func load[T any](ctx context.Context, vm *ViewModel, key string, force bool, fn func(context.Context) (T, error)) (T, error) {
	if force {
		return query.Refetch(ctx, vm.cache, key, fn)
	}
	return query.Fetch(ctx, vm.cache, key, fn)
}

// LoadChats fetches the chat list.
func (vm *ViewModel) LoadChats(ctx context.Context, force bool) error {
	chats, err := load(ctx, vm, query.KeyChats, force, vm.client.Chats.List)
	if err != nil {
		return fmt.Errorf("load chats: %w", err)
	}
	vm.mu.Lock()
	vm.Chats = chats
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadMessages fetches the messages of chatID.
func (vm *ViewModel) LoadMessages(ctx context.Context, chatID string, force bool) error {
	msgs, err := load(ctx, vm, query.Messages(chatID), force, func(ctx context.Context) ([]client.Message, error) {
		return vm.client.Messages.List(ctx, chatID)
	})
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	vm.mu.Lock()
	if vm.Messages == nil {
		vm.Messages = make(map[string][]client.Message)
	}
	vm.Messages[chatID] = msgs
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadTasks fetches the task list.
func (vm *ViewModel) LoadTasks(ctx context.Context, force bool) error {
	tasks, err := load(ctx, vm, query.KeyTasks, force, vm.client.Tasks.List)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	vm.mu.Lock()
	vm.Tasks = tasks
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadOrders fetches the user's orders.
func (vm *ViewModel) LoadOrders(ctx context.Context, force bool) error {
	orders, err := load(ctx, vm, query.KeyOrders, force, vm.client.Orders.List)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	vm.mu.Lock()
	vm.Orders = orders
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadAlerts fetches the SOS alert history.
func (vm *ViewModel) LoadAlerts(ctx context.Context, force bool) error {
	alerts, err := load(ctx, vm, query.KeySOS, force, vm.client.SOS.List)
	if err != nil {
		return fmt.Errorf("load sos alerts: %w", err)
	}
	vm.mu.Lock()
	vm.Alerts = alerts
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// Prefetch warms every list screen in parallel after sign-in.
func (vm *ViewModel) Prefetch(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return vm.LoadChats(ctx, false) })
	g.Go(func() error { return vm.LoadTasks(ctx, false) })
	g.Go(func() error { return vm.LoadOrders(ctx, false) })
	g.Go(func() error { return vm.LoadAlerts(ctx, false) })
	return g.Wait()
}

// Reset drops everything loaded for the previous user.
func (vm *ViewModel) Reset() {
	vm.mu.Lock()
	vm.Chats, vm.Messages, vm.Tasks, vm.Orders, vm.Alerts = nil, nil, nil, nil, nil
	vm.mu.Unlock()
	vm.signalRefresh()
}

// GetChats returns a snapshot of the current chat list.
func (vm *ViewModel) GetChats() []client.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Chats
}

// GetMessages returns the last loaded messages of chatID.
func (vm *ViewModel) GetMessages(chatID string) []client.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Messages[chatID]
}

// GetTasks returns a snapshot of the task list.
func (vm *ViewModel) GetTasks() []client.Task {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Tasks
}

// GetOrders returns a snapshot of the order list.
func (vm *ViewModel) GetOrders() []client.Order {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Orders
}

// GetAlerts returns a snapshot of the SOS alerts.
func (vm *ViewModel) GetAlerts() []client.SOSAlert {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Alerts
}

// UnreadTotal sums unread counts across chats.
func (vm *ViewModel) UnreadTotal() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	n := 0
	for _, c := range vm.Chats {
		n += c.UnreadCount
	}
	return n
}

// FindUser looks a user up by their user code.
func (vm *ViewModel) FindUser(ctx context.Context, code string) (*client.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	return vm.client.Users.SearchByCode(ctx, code)
}

// StartChat opens (or creates) the chat with another user.
func (vm *ViewModel) StartChat(ctx context.Context, userID string) (*client.Chat, error) {
	chat, err := vm.client.Chats.CreateWithUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("start chat: %w", err)
	}
	vm.cache.Invalidate(query.KeyChats)
	return chat, nil
}

// SendMessage queues a chat message for delivery.
func (vm *ViewModel) SendMessage(chatID, senderName, text, attachment string) (string, error) {
	id, err := vm.outbox.Enqueue(chatID, senderName, text, attachment)
	if err != nil {
		return "", err
	}
	vm.signalRefresh()
	return id, nil
}

// Pending lists messages of chatID still on their way to the backend.
func (vm *ViewModel) Pending(chatID string) []outbox.Outgoing {
	return vm.outbox.Pending(chatID)
}

// CreateTask creates a pending task.
func (vm *ViewModel) CreateTask(ctx context.Context, title, description string) (*client.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	task, err := vm.client.Tasks.Create(ctx, client.TaskCreate{
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      client.TaskPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	vm.cache.Invalidate(query.KeyTasks)
	return task, nil
}

// StartTask moves a task to in_progress and stamps its start time.
func (vm *ViewModel) StartTask(ctx context.Context, id string) (*client.Task, error) {
	task, err := vm.client.Tasks.Update(ctx, id, client.TaskUpdate{
		Status:    client.Ptr(client.TaskInProgress),
		StartTime: client.Ptr(stamp(vm.now())),
	})
	if err != nil {
		return nil, fmt.Errorf("start task: %w", err)
	}
	vm.cache.Invalidate(query.KeyTasks)
	return task, nil
}

// CompleteTask marks a task completed. Duration is the whole seconds since
// its start time, or zero when the task was never started.
func (vm *ViewModel) CompleteTask(ctx context.Context, task client.Task) (*client.Task, error) {
	end := vm.now()
	done, err := vm.client.Tasks.Update(ctx, task.ID, client.TaskUpdate{
		Status:   client.Ptr(client.TaskCompleted),
		EndTime:  client.Ptr(stamp(end)),
		Duration: client.Ptr(Duration(task.StartTime, end)),
	})
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	vm.cache.Invalidate(query.KeyTasks)
	return done, nil
}

// Duration returns whole seconds between a backend start time and end.
func Duration(start string, end time.Time) int {
	t, ok := timeline.Parse(start)
	if !ok || end.Before(t) {
		return 0
	}
	return int(end.Sub(t) / time.Second)
}

func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// SubmitOrder places the cart as an order and resets it on success.
func (vm *ViewModel) SubmitOrder(ctx context.Context, c *cart.Cart, number cart.NumberFunc) (*client.Order, error) {
	in, err := c.Order(number())
	if err != nil {
		return nil, err
	}
	order, err := vm.PlaceOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	c.Reset()
	return order, nil
}

// PlaceOrder creates an order that was already built from a cart.
func (vm *ViewModel) PlaceOrder(ctx context.Context, in client.OrderCreate) (*client.Order, error) {
	order, err := vm.client.Orders.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	vm.cache.Invalidate(query.KeyOrders)
	return order, nil
}

// SendSOS raises an alert with an optional location.
func (vm *ViewModel) SendSOS(ctx context.Context, location string) (*client.SOSAlert, error) {
	alert, err := vm.client.SOS.Create(ctx, client.SOSCreate{
		Location: strings.TrimSpace(location),
		Status:   client.SOSSent,
	})
	if err != nil {
		return nil, fmt.Errorf("send sos: %w", err)
	}
	vm.cache.Invalidate(query.KeySOS)
	return alert, nil
}

// SaveProfile updates the full name and, when avatarPath is set, uploads
// it first and stores the returned URL as the avatar.
func (vm *ViewModel) SaveProfile(ctx context.Context, fullName, avatarPath string) (*client.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrNameRequired
	}
	upd := client.UserUpdate{FullName: client.Ptr(fullName)}

	if avatarPath = strings.TrimSpace(avatarPath); avatarPath != "" {
		f, err := os.Open(avatarPath)
		if err != nil {
			return nil, fmt.Errorf("open avatar: %w", err)
		}
		ref, err := vm.client.Upload(ctx, filepath.Base(avatarPath), f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		upd.AvatarURL = client.Ptr(ref.FileURL)
	}

	user, err := vm.client.Auth.UpdateMe(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	vm.cache.Invalidate(query.KeyCurrentUser)
	return user, nil
}

// Preferences returns the stored app settings.
func (vm *ViewModel) Preferences() (store.Preferences, error) {
	return vm.prefs.Preferences()
}

// SavePreferences stores the app settings.
func (vm *ViewModel) SavePreferences(p store.Preferences) error {
	if err := vm.prefs.SavePreferences(p); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	vm.signalRefresh()
	return nil
}
