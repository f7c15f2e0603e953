package events

import "testing"

func TestHubSubscribeAndBroadcast(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe(1)
	hub.Broadcast(Notification{Kind: KindNewChat, ChatID: "c1"})

	got := <-sub
	if got.ChatID != "c1" {
		t.Fatalf("expected notification for c1, got %q", got.ChatID)
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe(1)
	hub.Unsubscribe(sub)

	if _, open := <-sub; open {
		t.Fatalf("expected channel to be closed")
	}
	if len(hub.subs) != 0 {
		t.Fatalf("expected subscriber to be removed")
	}

	// Broadcasting with no subscribers is fine.
	hub.Broadcast(Notification{Kind: KindNewMessage})
}

func TestHubDropsWhenSubscriberFull(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe(1)
	hub.Broadcast(Notification{ChatID: "first"})
	hub.Broadcast(Notification{ChatID: "second"})

	got := <-sub
	if got.ChatID != "first" {
		t.Fatalf("expected first notification, got %q", got.ChatID)
	}
	if len(sub) != 0 {
		t.Fatalf("expected second notification to be dropped")
	}
}
