package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	wsconn "github.com/coder/websocket"

	ws "menuboard/internal/websocket"
)

func newDisplayServer(t *testing.T) (*handlerEnv, *httptest.Server) {
	t.Helper()
	env := newHandlerEnv(t)
	h := &DisplayHandler{gateway: env.gateway, hub: env.hub, logger: discardLogger()}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /display/{slug}/ws", h.Socket)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return env, srv
}

func dialDisplay(t *testing.T, ctx context.Context, srv *httptest.Server, path string) *wsconn.Conn {
	t.Helper()
	conn, _, err := wsconn.Dial(ctx, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	return conn
}

func readMessage(t *testing.T, ctx context.Context, conn *wsconn.Conn) map[string]any {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return msg
}

func TestSocketKioskUnknownSlugReleasesControlSubscription(t *testing.T) {
	env, srv := newDisplayServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialDisplay(t, ctx, srv, "/display/nope/ws?kiosk=1")
	defer conn.Close(wsconn.StatusNormalClosure, "")

	msg := readMessage(t, ctx, conn)
	if msg["kind"] != "error" {
		t.Fatalf("first message = %v, want an error", msg)
	}

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("control subscription still registered after failed start: %d", env.hub.SubscriberCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSocketRelaysFullscreenToPlainDisplays(t *testing.T) {
	env, srv := newDisplayServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// No kiosk flag: the preview iframe and plain displays connect this way.
	conn := dialDisplay(t, ctx, srv, "/display/test-kitchen/ws")
	defer conn.Close(wsconn.StatusNormalClosure, "")

	if msg := readMessage(t, ctx, conn); msg["kind"] != "menu" {
		t.Fatalf("first message = %v, want the menu snapshot", msg)
	}

	env.hub.Publish(ws.NewMessage(ws.ControlTopic("test-kitchen"), "display", "fullscreen", 0))

	msg := readMessage(t, ctx, conn)
	if msg["kind"] != "fullscreen" || msg["action"] != "fullscreen" {
		t.Errorf("message after control publish = %v, want the fullscreen command", msg)
	}
}

func TestSocketCloseReleasesSubscriptions(t *testing.T) {
	env, srv := newDisplayServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialDisplay(t, ctx, srv, "/display/test-kitchen/ws?kiosk=1")

	// Wait for the first push so the session is fully mounted before closing.
	readMessage(t, ctx, conn)
	conn.Close(wsconn.StatusNormalClosure, "")

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriptions still registered after close: %d", env.hub.SubscriberCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
