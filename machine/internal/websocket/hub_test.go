package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Krimson/reelspin/internal/spin"
	"github.com/Krimson/reelspin/machine/internal/engine"
)

func startHub(t *testing.T, frameEvery int) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(frameEvery, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", n, hub.ClientCount())
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode message %s: %v", data, err)
	}
	return msg
}

func TestHub_BroadcastsEvents(t *testing.T) {
	hub, server := startHub(t, 1)
	conn := dial(t, server, "")
	waitForClients(t, hub, 1)

	hub.HandleEvent(context.Background(), engine.Event{
		Type:   engine.EventSpinFinished,
		Number: 42,
		Digits: [spin.ReelCount]int{0, 4, 2},
	})

	msg := readMessage(t, conn)
	if msg.Type != string(engine.EventSpinFinished) {
		t.Fatalf("expected spin_finished message, got %q", msg.Type)
	}
	if msg.Event == nil || msg.Event.Number != 42 {
		t.Errorf("unexpected event payload %+v", msg.Event)
	}
}

func TestHub_FrameThrottling(t *testing.T) {
	hub, server := startHub(t, 3)
	conn := dial(t, server, "")
	waitForClients(t, hub, 1)

	for i := 1; i <= 3; i++ {
		hub.PublishFrame(spin.Frame{CurrentNumber: i})
	}

	msg := readMessage(t, conn)
	if msg.Type != MessageTypeFrame || msg.Frame == nil {
		t.Fatalf("expected frame message, got %+v", msg)
	}
	if msg.Frame.CurrentNumber != 3 {
		t.Errorf("expected every third frame, got frame %d", msg.Frame.CurrentNumber)
	}
}

func TestHub_EventsOnlyClient(t *testing.T) {
	hub, server := startHub(t, 1)
	conn := dial(t, server, "?frames=false")
	waitForClients(t, hub, 1)

	hub.PublishFrame(spin.Frame{CurrentNumber: 1})
	hub.HandleEvent(context.Background(), engine.Event{Type: engine.EventSpinStarted, Number: 7})

	msg := readMessage(t, conn)
	if msg.Type != string(engine.EventSpinStarted) {
		t.Errorf("events-only client received %q first", msg.Type)
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, server := startHub(t, 1)
	conn := dial(t, server, "")
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}
