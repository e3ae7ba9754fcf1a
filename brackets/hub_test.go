package brackets

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestHub_Join(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()

	room := RoomID("t1")
	if !hub.Join(NewClient(hub, nil, room)) {
		t.Fatal("running hub refused a client")
	}
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(room) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.RoomSize(room) != 1 {
		t.Fatalf("expected 1 client in %s, got %d", room, hub.RoomSize(room))
	}

	hub.Stop()

	// A hub stopped before Run ever picked it up.
	stopped := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	stopped.Stop()

	joined := make(chan bool, 1)
	go func() { joined <- stopped.Join(NewClient(stopped, nil, room)) }()
	select {
	case ok := <-joined:
		if ok {
			t.Error("stopped hub accepted a client")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Join blocked on a stopped hub")
	}
}
