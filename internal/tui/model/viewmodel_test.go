package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheus3301/sentinel/internal/bus"
	"github.com/matheus3301/sentinel/internal/cart"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/outbox"
	"github.com/matheus3301/sentinel/internal/query"
	"github.com/matheus3301/sentinel/internal/store"
	"go.uber.org/zap"
)

type fakeOutbox struct {
	mu   sync.Mutex
	sent []outbox.Outgoing
}

func (f *fakeOutbox) Enqueue(chatID, senderName, text, attachment string) (string, error) {
	out, err := outbox.NewOutgoing(chatID, senderName, text, attachment)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.sent = append(f.sent, out)
	f.mu.Unlock()
	return out.ID, nil
}

func (f *fakeOutbox) Pending(chatID string) []outbox.Outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []outbox.Outgoing
	for _, o := range f.sent {
		if o.ChatID == chatID {
			out = append(out, o)
		}
	}
	return out
}

type fakePrefs struct {
	p store.Preferences
}

func (f *fakePrefs) Preferences() (store.Preferences, error) { return f.p, nil }
func (f *fakePrefs) SavePreferences(p store.Preferences) error {
	f.p = p
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestViewModel(t *testing.T, h http.Handler) (*ViewModel, *fakeOutbox, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	b := bus.New()
	tokens := &client.MemoryTokens{}
	_ = tokens.SetToken("tok")
	c := client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}, tokens, b, zap.NewNop())
	ob := &fakeOutbox{}
	vm := NewViewModel(c, query.New(nil, b, zap.NewNop()), ob, &fakePrefs{p: store.Preferences{Notifications: true}})
	return vm, ob, srv.URL
}

func TestLoadChatsUsesCache(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/chats", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, 200, []client.Chat{
			{ID: "1", ContactName: "Анна", UnreadCount: 2},
			{ID: "2", ContactName: "Борис", UnreadCount: 3},
		})
	})
	vm, _, _ := newTestViewModel(t, mux)
	ctx := context.Background()

	for range 2 {
		if err := vm.LoadChats(ctx, false); err != nil {
			t.Fatalf("LoadChats() error = %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("backend hits = %d, want 1 (cached)", hits.Load())
	}
	if err := vm.LoadChats(ctx, true); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("backend hits = %d, want 2 after forced reload", hits.Load())
	}
	if len(vm.GetChats()) != 2 || vm.UnreadTotal() != 5 {
		t.Errorf("chats = %v, unread = %d", vm.GetChats(), vm.UnreadTotal())
	}

	select {
	case <-vm.RefreshCh():
	default:
		t.Error("expected a refresh signal")
	}
}

func TestLoadMessagesKeepsChatsApart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []client.Message{{ID: "m1", ChatID: r.URL.Query().Get("chat_id"), Text: "привет"}})
	})
	vm, _, _ := newTestViewModel(t, mux)

	ctx := context.Background()
	if err := vm.LoadMessages(ctx, "c9", false); err != nil {
		t.Fatal(err)
	}
	// A late response for another chat must not replace c9's thread.
	if err := vm.LoadMessages(ctx, "c1", false); err != nil {
		t.Fatal(err)
	}
	if msgs := vm.GetMessages("c9"); len(msgs) != 1 || msgs[0].ChatID != "c9" {
		t.Errorf("GetMessages(c9) = %v", msgs)
	}
	if msgs := vm.GetMessages("c1"); len(msgs) != 1 || msgs[0].ChatID != "c1" {
		t.Errorf("GetMessages(c1) = %v", msgs)
	}
	if msgs := vm.GetMessages("c2"); msgs != nil {
		t.Errorf("GetMessages(c2) = %v, want nil", msgs)
	}
}

func TestPrefetchLoadsEveryList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/chats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []client.Chat{{ID: "1"}})
	})
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []client.Task{{ID: "t1", Status: client.TaskPending}})
	})
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []client.Order{{ID: "o1"}})
	})
	mux.HandleFunc("GET /api/sos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []client.SOSAlert{{ID: "s1"}})
	})
	vm, _, _ := newTestViewModel(t, mux)

	if err := vm.Prefetch(context.Background()); err != nil {
		t.Fatalf("Prefetch() error = %v", err)
	}
	if len(vm.GetChats()) != 1 || len(vm.GetTasks()) != 1 || len(vm.GetOrders()) != 1 || len(vm.GetAlerts()) != 1 {
		t.Error("Prefetch() should fill every list")
	}

	vm.Reset()
	if vm.GetChats() != nil || vm.GetTasks() != nil {
		t.Error("Reset() should drop loaded lists")
	}
}

func TestPrefetchReportsFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/chats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]string{"detail": "boom"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []any{})
	})
	vm, _, _ := newTestViewModel(t, mux)
	if err := vm.Prefetch(context.Background()); err == nil {
		t.Error("Prefetch() should surface a failed list")
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	vm, _, _ := newTestViewModel(t, http.NotFoundHandler())
	if _, err := vm.CreateTask(context.Background(), "   ", "desc"); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("CreateTask() error = %v, want ErrTitleRequired", err)
	}
}

func TestCreateTaskInvalidatesList(t *testing.T) {
	var lists atomic.Int32
	var body client.TaskCreate
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		lists.Add(1)
		writeJSON(w, 200, []client.Task{})
	})
	mux.HandleFunc("POST /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, client.Task{ID: "t1", Title: body.Title, Status: body.Status})
	})
	vm, _, _ := newTestViewModel(t, mux)
	ctx := context.Background()

	_ = vm.LoadTasks(ctx, false)
	if _, err := vm.CreateTask(ctx, " Обход ", " периметр "); err != nil {
		t.Fatal(err)
	}
	_ = vm.LoadTasks(ctx, false)

	if body.Title != "Обход" || body.Description != "периметр" || body.Status != client.TaskPending {
		t.Errorf("create body = %+v", body)
	}
	if lists.Load() != 2 {
		t.Errorf("task list fetched %d times, want 2", lists.Load())
	}
}

func TestStartAndCompleteTask(t *testing.T) {
	var updates []map[string]any
	var mu sync.Mutex
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		mu.Lock()
		updates = append(updates, m)
		mu.Unlock()
		writeJSON(w, 200, client.Task{ID: r.PathValue("id")})
	})
	vm, _, _ := newTestViewModel(t, mux)
	vm.now = func() time.Time { return time.Date(2025, 3, 5, 10, 1, 30, 0, time.UTC) }
	ctx := context.Background()

	if _, err := vm.StartTask(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := vm.CompleteTask(ctx, client.Task{ID: "t1", StartTime: "2025-03-05T10:00:00"}); err != nil {
		t.Fatal(err)
	}

	if len(updates) != 2 {
		t.Fatalf("got %d updates", len(updates))
	}
	if updates[0]["status"] != "in_progress" || updates[0]["start_time"] != "2025-03-05T10:01:30.000Z" {
		t.Errorf("start update = %v", updates[0])
	}
	if _, ok := updates[0]["duration"]; ok {
		t.Error("start update should not send duration")
	}
	if updates[1]["status"] != "completed" || updates[1]["duration"] != float64(90) {
		t.Errorf("complete update = %v", updates[1])
	}
}

func TestDuration(t *testing.T) {
	end := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		start string
		want  int
	}{
		{"2025-03-05T11:00:00", 3600},
		{"2025-03-05T11:59:59.500Z", 0},
		{"", 0},
		{"garbage", 0},
		{"2025-03-05T13:00:00", 0},
	}
	for _, tt := range tests {
		if got := Duration(tt.start, end); got != tt.want {
			t.Errorf("Duration(%q) = %d, want %d", tt.start, got, tt.want)
		}
	}
}

func TestSubmitOrder(t *testing.T) {
	var body client.OrderCreate
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, client.Order{ID: "o1", OrderNumber: body.OrderNumber, Status: body.Status, Items: body.Items, TotalItems: body.TotalItems})
	})
	vm, _, _ := newTestViewModel(t, mux)

	c := cart.New()
	c.Inc("0.5л")
	c.Inc("0.5л")
	c.Inc("Kent")
	order, err := vm.SubmitOrder(context.Background(), c, func() string { return "#4242" })
	if err != nil {
		t.Fatalf("SubmitOrder() error = %v", err)
	}
	if order.OrderNumber != "#4242" || body.TotalItems != 3 || body.Status != client.OrderProcessing {
		t.Errorf("order = %+v, body = %+v", order, body)
	}
	if len(body.Items) != 2 || body.Items[0] != (client.OrderItem{ProductName: "0.5л", Quantity: 2}) {
		t.Errorf("items = %v", body.Items)
	}
	if c.Total() != 0 {
		t.Errorf("cart total after submit = %d, want 0", c.Total())
	}
}

func TestSubmitEmptyOrder(t *testing.T) {
	vm, _, _ := newTestViewModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty cart")
	}))
	if _, err := vm.SubmitOrder(context.Background(), cart.New(), cart.RandomOrderNumber); !errors.Is(err, cart.ErrEmpty) {
		t.Errorf("SubmitOrder() error = %v, want cart.ErrEmpty", err)
	}
}

func TestSubmitOrderFailureKeepsCart(t *testing.T) {
	vm, _, _ := newTestViewModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 422, map[string]string{"detail": "bad order"})
	}))
	c := cart.New()
	c.Inc("Kent")
	if _, err := vm.SubmitOrder(context.Background(), c, cart.RandomOrderNumber); err == nil {
		t.Fatal("expected error")
	}
	if c.Quantity("Kent") != 1 {
		t.Error("cart should survive a failed submit")
	}
}

func TestSendSOS(t *testing.T) {
	var body client.SOSCreate
	vm, _, _ := newTestViewModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, client.SOSAlert{ID: "s1", Status: body.Status, Location: body.Location})
	}))
	alert, err := vm.SendSOS(context.Background(), "  КПП-2 ")
	if err != nil {
		t.Fatal(err)
	}
	if body.Location != "КПП-2" || body.Status != client.SOSSent || alert.ID != "s1" {
		t.Errorf("body = %+v, alert = %+v", body, alert)
	}
}

func TestFindUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/search/{code}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("code") != "AB12CD" {
			writeJSON(w, 404, map[string]string{"detail": "User not found"})
			return
		}
		writeJSON(w, 200, client.User{ID: "u2", FullName: "Борис", UserCode: "AB12CD"})
	})
	mux.HandleFunc("POST /api/chats/with-user/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, client.Chat{ID: "c2", UserID: r.PathValue("id"), ContactName: "Борис"})
	})
	vm, _, _ := newTestViewModel(t, mux)
	ctx := context.Background()

	if _, err := vm.FindUser(ctx, " "); !errors.Is(err, ErrCodeRequired) {
		t.Errorf("FindUser(blank) error = %v", err)
	}
	if _, err := vm.FindUser(ctx, "ZZZZZZ"); !client.IsNotFound(err) {
		t.Errorf("FindUser(unknown) error = %v, want not found", err)
	}
	u, err := vm.FindUser(ctx, " AB12CD ")
	if err != nil {
		t.Fatal(err)
	}
	chat, err := vm.StartChat(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if chat.UserID != "u2" {
		t.Errorf("chat = %+v", chat)
	}
}

func TestSendMessageQueues(t *testing.T) {
	vm, ob, _ := newTestViewModel(t, http.NotFoundHandler())
	if _, err := vm.SendMessage("c1", "", "привет", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := vm.SendMessage("c1", "Анна", "  ", ""); !errors.Is(err, outbox.ErrEmptyMessage) {
		t.Errorf("blank message error = %v", err)
	}
	pending := vm.Pending("c1")
	if len(pending) != 1 || pending[0].SenderName != outbox.DefaultSenderName {
		t.Errorf("Pending() = %+v", pending)
	}
	if len(ob.sent) != 1 {
		t.Errorf("outbox got %d messages", len(ob.sent))
	}
}

func TestSaveProfileUploadsAvatar(t *testing.T) {
	var patch map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("FormFile: %v", err)
		}
		writeJSON(w, 200, map[string]string{"file_url": "/api/files/f1"})
	})
	mux.HandleFunc("PATCH /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&patch)
		writeJSON(w, 200, client.User{ID: "u1", FullName: "Анна Петрова"})
	})
	vm, _, base := newTestViewModel(t, mux)

	avatar := filepath.Join(t.TempDir(), "me.png")
	if err := os.WriteFile(avatar, []byte("png"), 0600); err != nil {
		t.Fatal(err)
	}

	user, err := vm.SaveProfile(context.Background(), " Анна Петрова ", avatar)
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if user.FullName != "Анна Петрова" {
		t.Errorf("user = %+v", user)
	}
	if patch["full_name"] != "Анна Петрова" || patch["avatar_url"] != base+"/api/files/f1" {
		t.Errorf("patch = %v", patch)
	}
}

func TestSaveProfileWithoutAvatar(t *testing.T) {
	var patch map[string]any
	vm, _, _ := newTestViewModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&patch)
		writeJSON(w, 200, client.User{ID: "u1"})
	}))
	if _, err := vm.SaveProfile(context.Background(), "", ""); !errors.Is(err, ErrNameRequired) {
		t.Errorf("SaveProfile(blank) error = %v", err)
	}
	if _, err := vm.SaveProfile(context.Background(), "Анна", ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := patch["avatar_url"]; ok {
		t.Errorf("patch should omit avatar_url: %v", patch)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	vm, _, _ := newTestViewModel(t, http.NotFoundHandler())
	if err := vm.SavePreferences(store.Preferences{Notifications: false, DarkMode: true}); err != nil {
		t.Fatal(err)
	}
	p, err := vm.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if p.Notifications || !p.DarkMode {
		t.Errorf("Preferences() = %+v", p)
	}
}
