package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"borrowed-brain-be/pkg/events"

	"github.com/google/uuid"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

func waitForClientCount(t *testing.T, hub *Hub, userID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		got := len(hub.clients[userID])
		hub.mu.RUnlock()
		if got == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("client count for %s stuck at %d, want %d", userID, got, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSendDeliversToAllUserDevices(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	userID := uuid.New()
	first := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	second := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- first
	hub.register <- second
	waitForClientCount(t, hub, userID, 2)

	event := events.SyncStatusEvent{
		Type:      events.EventSyncCompleted,
		UserId:    userID,
		EpisodeId: uuid.New(),
	}
	hub.Send(userID, event)

	for _, client := range []*Client{first, second} {
		select {
		case frame := <-client.Send:
			var envelope struct {
				Type string                 `json:"type"`
				Data events.SyncStatusEvent `json:"data"`
			}
			if err := json.Unmarshal(frame, &envelope); err != nil {
				t.Fatalf("bad frame: %v", err)
			}
			if envelope.Type != "sync_status" {
				t.Errorf("frame type = %q, want sync_status", envelope.Type)
			}
			if envelope.Data.Type != events.EventSyncCompleted {
				t.Errorf("event type = %q, want %q", envelope.Data.Type, events.EventSyncCompleted)
			}
		case <-time.After(time.Second):
			t.Fatal("client never received the frame")
		}
	}
}

func TestSlowConsumerUnregistersWithoutDoubleClose(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- client
	waitForClientCount(t, hub, userID, 1)

	event := events.SyncStatusEvent{Type: events.EventSyncQueued, UserId: userID}
	hub.Send(userID, event) // fills the one-slot buffer
	hub.Send(userID, event) // overflows; the hub drops and unregisters
	waitForClientCount(t, hub, userID, 0)

	// The pump unregisters again when the connection dies. Already gone from
	// the map, this must be a no-op rather than a second close.
	hub.unregister <- client

	<-client.Send // the buffered frame drains first
	select {
	case _, open := <-client.Send:
		if open {
			t.Fatal("Send channel still open after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("Send channel never closed")
	}
}
