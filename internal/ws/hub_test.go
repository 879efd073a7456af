package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-catalog-admin/internal/events"
)

func TestPublishQueuesJSON(t *testing.T) {
	h := NewHub()
	ev := events.New(events.TypeProduct, events.ActionUpdated, map[string]string{"id": "p-1"}, &events.Actor{ID: "u-1"}, "saved")

	if err := h.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-h.Broadcast:
		var got struct {
			Type   string `json:"type"`
			Action string `json:"action"`
			User   struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("broadcast is not JSON: %v", err)
		}
		if got.Type != "product" || got.Action != "updated" || got.User.ID != "u-1" {
			t.Fatalf("broadcast = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("nothing broadcast")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if n := h.ClientCount(); n != 0 {
		t.Fatalf("ClientCount() = %d", n)
	}
}
