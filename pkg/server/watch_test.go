package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mverhagen/bpdoc/pkg/monitor"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

func TestWatchDisabledWithoutSource(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := get(t, s.Handler(), "/api/watch")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404 when no event source is wired", rec.Code)
	}
}

func TestWatchStreamsEvents(t *testing.T) {
	bus := monitor.NewBus()
	s := newTestServer(t, Options{Events: bus})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/watch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	if resp != nil {
		resp.Body.Close()
	}

	// The handshake completes before the server registers its
	// subscriptions, so publish until the frame comes through.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		event := monitor.Event{
			Class: monitor.AssetModified,
			Handle: registry.Handle{
				Name: "Door",
				Path: "/Game/Doors/Door",
				Kind: registry.KindBlueprint,
			},
		}
		for {
			select {
			case <-stop:
				return
			default:
				bus.Publish(event)
				time.Sleep(25 * time.Millisecond)
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame watchFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}

	if frame.Event != "modified" {
		t.Errorf("Event = %q, want modified", frame.Event)
	}
	if frame.Name != "Door" {
		t.Errorf("Name = %q, want Door", frame.Name)
	}
	if frame.Path != "/Game/Doors/Door" {
		t.Errorf("Path = %q", frame.Path)
	}
	if frame.Kind != "Blueprint" {
		t.Errorf("Kind = %q, want Blueprint", frame.Kind)
	}
}

func TestWatchUnsubscribesOnDisconnect(t *testing.T) {
	bus := monitor.NewBus()
	s := newTestServer(t, Options{Events: bus})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/watch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	conn.Close()

	// Publishing after the client is gone must not panic or block even
	// though the server may still be tearing the subscription down.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			bus.Publish(monitor.Event{
				Class:  monitor.AssetRemoved,
				Handle: registry.Handle{Name: "Door", Path: "/Game/Doors/Door", Kind: registry.KindBlueprint},
			})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked after client disconnect")
	}
}
