package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheus3301/sentinel/internal/bus"
	"go.uber.org/zap"
)

type memPersister struct {
	mu   sync.Mutex
	rows map[string][]byte
}

func newMemPersister() *memPersister {
	return &memPersister{rows: make(map[string][]byte)}
}

func (m *memPersister) LoadQuery(key string) ([]byte, time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[key]
	return b, time.Time{}, ok, nil
}

func (m *memPersister) SaveQuery(key string, body []byte, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[key] = body
	return nil
}

func (m *memPersister) DeleteQueries(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.rows {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			delete(m.rows, k)
		}
	}
	return nil
}

func (m *memPersister) ClearQueries() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string][]byte)
	return nil
}

type chat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func counting(calls *atomic.Int32, v []chat) func(context.Context) ([]chat, error) {
	return func(context.Context) ([]chat, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestFetchCachesResult(t *testing.T) {
	c := New(nil, bus.New(), zap.NewNop())
	var calls atomic.Int32
	load := counting(&calls, []chat{{ID: "1", Name: "Борис"}})
	ctx := context.Background()

	for range 3 {
		got, err := Fetch(ctx, c, KeyChats, load)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Name != "Борис" {
			t.Fatalf("Fetch() = %+v", got)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("load calls = %d, want 1", calls.Load())
	}
	if c.memory(KeyChats) == nil {
		t.Error("chats should be cached")
	}

	if _, err := Refetch(ctx, c, KeyChats, load); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("Refetch should always load, calls = %d", calls.Load())
	}
}

func TestFetchErrorNotCached(t *testing.T) {
	c := New(nil, bus.New(), zap.NewNop())
	boom := errors.New("boom")
	_, err := Fetch(context.Background(), c, KeyTasks, func(context.Context) ([]chat, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v", err)
	}
	if _, ok := Peek[[]chat](c, KeyTasks); ok {
		t.Error("failed load should not be cached")
	}
}

func TestConcurrentFetchSharesOneLoad(t *testing.T) {
	c := New(nil, bus.New(), zap.NewNop())
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]chat, error) {
		calls.Add(1)
		<-release
		return []chat{{ID: "1"}}, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Fetch(context.Background(), c, KeyOrders, load); err != nil {
				t.Error(err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("load calls = %d, want 1", calls.Load())
	}
}

func TestInvalidatePrefix(t *testing.T) {
	b := bus.New()
	p := newMemPersister()
	c := New(p, b, zap.NewNop())
	events, unsub := b.Subscribe("query.", 4)
	defer unsub()
	ctx := context.Background()
	var calls atomic.Int32

	for _, key := range []string{Messages("1"), Messages("2"), KeyChats} {
		if _, err := Fetch(ctx, c, key, counting(&calls, []chat{{ID: key}})); err != nil {
			t.Fatal(err)
		}
	}

	c.Invalidate(KeyMessages)

	if c.memory(Messages("1")) != nil {
		t.Error("messages/1 should be invalidated")
	}
	if c.memory(Messages("2")) != nil {
		t.Error("messages/2 should be invalidated")
	}
	if c.memory(KeyChats) == nil {
		t.Error("chats should survive a messages invalidation")
	}
	if _, _, ok, _ := p.LoadQuery(Messages("1")); ok {
		t.Error("persisted messages/1 should be deleted")
	}

	select {
	case evt := <-events:
		if evt.Kind != bus.QueryInvalidated || evt.Payload != KeyMessages {
			t.Errorf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no query.invalidated event")
	}
}

func TestInvalidateDuringLoadDiscardsResult(t *testing.T) {
	c := New(nil, bus.New(), zap.NewNop())
	_, err := Fetch(context.Background(), c, KeyTasks, func(context.Context) ([]chat, error) {
		c.Invalidate(KeyTasks)
		return []chat{{ID: "stale"}}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.memory(KeyTasks) != nil {
		t.Error("result loaded across an invalidation should not be cached")
	}
}

func TestFetchAfterInvalidateDoesNotJoinOlderLoad(t *testing.T) {
	c := New(nil, bus.New(), zap.NewNop())
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	first := make(chan []chat, 1)
	go func() {
		v, err := Fetch(ctx, c, Messages("1"), func(context.Context) ([]chat, error) {
			close(started)
			<-release
			return []chat{{ID: "old"}}, nil
		})
		if err != nil {
			t.Error(err)
		}
		first <- v
	}()
	<-started

	c.Invalidate(KeyMessages)

	second := make(chan []chat, 1)
	var calls atomic.Int32
	go func() {
		v, err := Fetch(ctx, c, Messages("1"), counting(&calls, []chat{{ID: "old"}, {ID: "new"}}))
		if err != nil {
			t.Error(err)
		}
		second <- v
	}()

	var got []chat
	select {
	case got = <-second:
	case <-time.After(time.Second):
		close(release)
		t.Fatal("fetch after invalidation waited on the older load")
	}
	close(release)
	<-first

	if calls.Load() != 1 || len(got) != 2 {
		t.Errorf("fetch after invalidation = %+v, load calls = %d", got, calls.Load())
	}
	cached, ok := Peek[[]chat](c, Messages("1"))
	if !ok || len(cached) != 2 {
		t.Errorf("cached = %+v, %v, want the post-invalidation rows", cached, ok)
	}
}

func TestPeekFallsBackToPersisted(t *testing.T) {
	p := newMemPersister()
	ctx := context.Background()
	var calls atomic.Int32

	first := New(p, bus.New(), zap.NewNop())
	if _, err := Fetch(ctx, first, KeyChats, counting(&calls, []chat{{ID: "1", Name: "Анна"}})); err != nil {
		t.Fatal(err)
	}
	if _, err := Fetch(ctx, first, KeyCurrentUser, counting(&calls, []chat{{ID: "me"}})); err != nil {
		t.Fatal(err)
	}

	second := New(p, bus.New(), zap.NewNop())
	got, ok := Peek[[]chat](second, KeyChats)
	if !ok || len(got) != 1 || got[0].Name != "Анна" {
		t.Errorf("Peek(chats) = %+v, %v", got, ok)
	}
	if _, ok := Peek[[]chat](second, KeyCurrentUser); ok {
		t.Error("current user must not be persisted")
	}
}

func TestClear(t *testing.T) {
	p := newMemPersister()
	c := New(p, bus.New(), zap.NewNop())
	var calls atomic.Int32
	if _, err := Fetch(context.Background(), c, KeySOS, counting(&calls, nil)); err != nil {
		t.Fatal(err)
	}

	c.Clear()

	if _, ok := Peek[[]chat](c, KeySOS); ok {
		t.Error("Clear should drop memory and persisted entries")
	}
}

func TestKey(t *testing.T) {
	if got := Messages("abc"); got != "messages/abc" {
		t.Errorf("Messages() = %q", got)
	}
	if matches("messagesX", KeyMessages) {
		t.Error("prefix must match on segment boundaries")
	}
}
