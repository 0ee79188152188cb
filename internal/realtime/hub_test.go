package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for outcome message")
	}
	return Message{}
}

func TestHubReconnectAndOrdering(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	channel := uuid.New().String()

	clientA := hub.NewClient(uuid.New())
	hub.AddChannel(clientA, channel)

	first := Message{Channel: channel, Kind: "reward_granted", Data: map[string]any{"seq": 1}}
	second := Message{Channel: channel, Kind: "ticket_created", Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Kind != "reward_granted" {
		t.Fatalf("first kind: want=reward_granted got=%s", gotFirst.Kind)
	}
	if gotSecond.Kind != "ticket_created" {
		t.Fatalf("second kind: want=ticket_created got=%s", gotSecond.Kind)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}

	clientB := hub.NewClient(uuid.New())
	hub.AddChannel(clientB, channel)
	reconnect := Message{Channel: channel, Kind: "ticket_claimed", Data: map[string]any{"seq": 3}}
	hub.Broadcast(reconnect)
	gotReconnect := recvMessage(t, clientB.Outbound, time.Second)
	if gotReconnect.Kind != "ticket_claimed" {
		t.Fatalf("reconnect kind: want=ticket_claimed got=%s", gotReconnect.Kind)
	}
}

func TestHubChannelIsolation(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	venueA := uuid.New().String()
	venueB := uuid.New().String()

	client := hub.NewClient(uuid.New())
	hub.AddChannel(client, venueA)

	hub.Broadcast(Message{Channel: venueB, Kind: "reward_granted"})
	select {
	case msg := <-client.Outbound:
		t.Fatalf("received message for foreign venue: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}

	hub.Broadcast(Message{Channel: venueA, Kind: "reward_granted"})
	got := recvMessage(t, client.Outbound, time.Second)
	if got.Channel != venueA {
		t.Fatalf("channel: want=%s got=%s", venueA, got.Channel)
	}
}
