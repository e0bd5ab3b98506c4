package broadcast

import (
	"context"
	"testing"
)

func TestLocalFansOutToAllSubscribers(t *testing.T) {
	l := NewLocal()

	var first, second []Message
	l.Subscribe(func(msg Message) { first = append(first, msg) })
	l.Subscribe(func(msg Message) { second = append(second, msg) })

	msg := Message{Type: TypePlaySound, Data: map[string]string{"type": "panic_alert"}}
	if err := l.Broadcast(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 delivery per subscriber, got %d and %d", len(first), len(second))
	}
	if first[0].Type != TypePlaySound || first[0].Data["type"] != "panic_alert" {
		t.Errorf("unexpected delivery: %+v", first[0])
	}
}

func TestLocalDoesNotReplayToLateSubscribers(t *testing.T) {
	l := NewLocal()

	if err := l.Broadcast(context.Background(), Message{Type: TypeStopSound}); err != nil {
		t.Fatal(err)
	}

	var got []Message
	l.Subscribe(func(msg Message) { got = append(got, msg) })

	if len(got) != 0 {
		t.Errorf("late subscriber must not see earlier messages, got %v", got)
	}
}

func TestLocalBroadcastWithNoSubscribers(t *testing.T) {
	l := NewLocal()
	if err := l.Broadcast(context.Background(), Message{Type: TypeNotificationClosed}); err != nil {
		t.Errorf("broadcast into the void must succeed, got %v", err)
	}
}
