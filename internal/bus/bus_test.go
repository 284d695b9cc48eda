package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	b.Emit(SessionInvalidated, "/api/auth/me")

	select {
	case evt := <-ch:
		if evt.Kind != SessionInvalidated {
			t.Errorf("got kind %q, want %s", evt.Kind, SessionInvalidated)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Emit should stamp the event")
		}
		if evt.Payload != "/api/auth/me" {
			t.Errorf("payload = %v", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("query.", 10)
	defer unsub()

	b.Emit(SessionInvalidated, nil)
	b.Emit(QueryInvalidated, "chats")

	select {
	case evt := <-ch:
		if evt.Kind != QueryInvalidated {
			t.Errorf("got kind %q, want %s", evt.Kind, QueryInvalidated)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 10)
	unsub()
	unsub()

	b.Emit(SessionInvalidated, nil)

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 1)
	defer unsub()

	b.Emit(MessageSent, Delivery{OutgoingID: "one"})
	b.Emit(MessageSent, Delivery{OutgoingID: "two"})

	evt := <-ch
	if d := evt.Payload.(Delivery); d.OutgoingID != "one" {
		t.Errorf("got %q, want one", d.OutgoingID)
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	b.Emit(MessageSent, nil)
}
