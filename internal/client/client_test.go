package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheus3301/sentinel/internal/bus"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.Handler, retries int) (*Client, *MemoryTokens, *bus.Bus) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tokens := &MemoryTokens{}
	b := bus.New()
	c := New(Options{
		BaseURL:     srv.URL + "/",
		Timeout:     5 * time.Second,
		ReadRetries: retries,
		RetryDelay:  time.Millisecond,
	}, tokens, b, zap.NewNop())
	return c, tokens, b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	var gotAuth, gotRequestID string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]any
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if _, ok := creds["full_name"]; ok {
			t.Error("login body should not carry full_name")
		}
		writeJSON(w, 200, map[string]string{"access_token": "tok-1", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(w, 200, map[string]any{"id": "u1", "email": "a@b.c", "full_name": "Анна Иванова", "user_code": "AB12CD", "avatar_url": nil})
	})
	c, tokens, _ := newTestClient(t, mux, 0)

	if _, err := c.Auth.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x", FullName: "ignored"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tok, _ := tokens.Token(); tok != "tok-1" {
		t.Fatalf("stored token = %q, want tok-1", tok)
	}

	me, err := c.Auth.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID should be set")
	}
	if me.FullName != "Анна Иванова" || me.UserCode != "AB12CD" {
		t.Errorf("Me() = %+v", me)
	}
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	var sawHeader atomic.Bool
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader.Store(r.Header.Get("Authorization") != "")
		writeJSON(w, 200, []any{})
	}), 0)

	if _, err := c.Chats.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sawHeader.Load() {
		t.Error("Authorization header sent without a token")
	}
}

func TestUnauthorizedClearsTokenAndPublishes(t *testing.T) {
	c, tokens, b := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"detail": "Token expired"})
	}), 3)
	_ = tokens.SetToken("stale")
	events, unsub := b.Subscribe("session.", 4)
	defer unsub()

	_, err := c.Tasks.List(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if tok, _ := tokens.Token(); tok != "" {
		t.Errorf("token = %q, want cleared", tok)
	}
	select {
	case evt := <-events:
		if evt.Kind != bus.SessionInvalidated || evt.Payload != "/api/tasks" {
			t.Errorf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no session.invalidated event")
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "User not found"})
	}), 0)

	_, err := c.Users.SearchByCode(context.Background(), "ZZ99ZZ")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T %v, want *APIError", err, err)
	}
	if apiErr.Detail != "User not found" || apiErr.Path != "/api/users/search/ZZ99ZZ" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("404 must not match ErrUnauthorized")
	}
	if StatusCode(err) != 404 {
		t.Errorf("StatusCode() = %d", StatusCode(err))
	}
}

func TestReadsRetriedOnServerError(t *testing.T) {
	var calls atomic.Int32
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, 502, map[string]string{"detail": "bad gateway"})
			return
		}
		writeJSON(w, 200, []map[string]any{{"id": "o1", "order_number": "#1234", "status": "ready", "items": []any{}, "total_items": 0}})
	}), 1)

	orders, err := c.Orders.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(orders) != 1 || orders[0].OrderNumber != "#1234" {
		t.Errorf("orders = %+v", orders)
	}
}

func TestReadRetriesAreBounded(t *testing.T) {
	var calls atomic.Int32
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(500)
	}), 1)

	_, err := c.SOS.List(context.Background())
	if StatusCode(err) != 500 {
		t.Fatalf("error = %v, want 500", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClientErrorsAndMutationsNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
	}{
		{"GET 400", 400, func(c *Client) error { _, err := c.Chats.List(context.Background()); return err }},
		{"POST 500", 500, func(c *Client) error {
			_, err := c.Messages.Create(context.Background(), MessageCreate{ChatID: "c1", Text: "hi"})
			return err
		}},
		{"PATCH 503", 503, func(c *Client) error {
			_, err := c.Tasks.Update(context.Background(), "t1", TaskUpdate{Status: Ptr(TaskCompleted)})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}), 2)
			if err := tt.call(c); StatusCode(err) != tt.status {
				t.Fatalf("error = %v", err)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, want 1", calls.Load())
			}
		})
	}
}

func TestPartialUpdateOmitsUnsetFields(t *testing.T) {
	var body map[string]any
	var path string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"id": "c1", "contact_name": "Борис"})
	}), 0)

	_, err := c.Chats.Update(context.Background(), "c1", ChatUpdate{
		LastMessage: Ptr("привет"),
		Time:        Ptr("14:05"),
		UnreadCount: Ptr(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if path != "/api/chats/c1" {
		t.Errorf("path = %q", path)
	}
	if len(body) != 3 {
		t.Errorf("body = %v, want exactly last_message, time, unread_count", body)
	}
	if body["unread_count"] != float64(0) {
		t.Errorf("unread_count = %v, want explicit 0", body["unread_count"])
	}
}

func TestMessagesListFiltersByChat(t *testing.T) {
	var query string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, 200, []map[string]any{{"id": "m1", "chat_id": "c 1", "text": "hi", "image_url": nil}})
	}), 0)

	msgs, err := c.Messages.List(context.Background(), "c 1")
	if err != nil {
		t.Fatal(err)
	}
	if query != "chat_id=c+1" {
		t.Errorf("query = %q", query)
	}
	if len(msgs) != 1 || msgs[0].ImageURL != "" {
		t.Errorf("msgs = %+v", msgs)
	}
}

func TestCreateDefaultsStatus(t *testing.T) {
	var statuses []string
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		statuses = append(statuses, body["status"].(string))
		writeJSON(w, 200, body)
	}), 0)
	ctx := context.Background()

	if _, err := c.Tasks.Create(ctx, TaskCreate{Title: "patrol"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Orders.Create(ctx, OrderCreate{OrderNumber: "#1000"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SOS.Create(ctx, SOSCreate{}); err != nil {
		t.Fatal(err)
	}
	want := []string{TaskPending, OrderProcessing, SOSSent}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status[%d] = %q, want %q", i, statuses[i], want[i])
		}
	}
}

func TestUploadSendsMultipartAndResolvesURL(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(400)
			return
		}
		data, _ := io.ReadAll(f)
		if string(data) != "PNGDATA" || hdr.Filename != "avatar.png" {
			t.Errorf("file = %q named %q", data, hdr.Filename)
		}
		writeJSON(w, 200, map[string]string{"file_url": "/api/files/abc"})
	}), 0)

	ref, err := c.Upload(context.Background(), "/tmp/pics/avatar.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatal(err)
	}
	if ref.FileURL != c.BaseURL()+"/api/files/abc" {
		t.Errorf("FileURL = %q", ref.FileURL)
	}
}

func TestResolveURL(t *testing.T) {
	c := New(Options{BaseURL: "http://api.local:8001/"}, &MemoryTokens{}, nil, zap.NewNop())
	tests := []struct{ in, want string }{
		{"", ""},
		{"/api/files/1", "http://api.local:8001/api/files/1"},
		{"api/files/1", "http://api.local:8001/api/files/1"},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
	}
	for _, tt := range tests {
		if got := c.ResolveURL(tt.in); got != tt.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDetail(t *testing.T) {
	tests := []struct{ body, want string }{
		{`{"detail":"Email already registered"}`, "Email already registered"},
		{`{"detail":[{"loc":["body","email"],"msg":"field required"}]}`, "field required"},
		{`not json`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		if got := parseDetail([]byte(tt.body)); got != tt.want {
			t.Errorf("parseDetail(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
