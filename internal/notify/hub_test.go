package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elderlango/ReactChat/internal/notify"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// newHubServer exposes the hub over a real websocket endpoint; the user id
// comes from the query so tests can connect as anyone.
func newHubServer(t *testing.T, h *notify.Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(r.URL.Query().Get("user"), conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial as %s: %v", userID, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func readEvent(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return env
}

func TestServeAnnouncesOnlineUsers(t *testing.T) {
	h := notify.NewHub()
	srv := newHubServer(t, h)

	c1 := dial(t, srv, "u1")
	env := readEvent(t, c1)
	if env.Event != notify.EventOnlineUsers {
		t.Fatalf("first event = %q, want %q", env.Event, notify.EventOnlineUsers)
	}
	var online []string
	if err := json.Unmarshal(env.Data, &online); err != nil {
		t.Fatalf("online payload: %v", err)
	}
	if len(online) != 1 || online[0] != "u1" {
		t.Fatalf("online = %v", online)
	}

	// A second user joining is announced to the first.
	dial(t, srv, "u2")
	env = readEvent(t, c1)
	if env.Event != notify.EventOnlineUsers {
		t.Fatalf("event = %q", env.Event)
	}
	if err := json.Unmarshal(env.Data, &online); err != nil {
		t.Fatalf("online payload: %v", err)
	}
	if len(online) != 2 || online[0] != "u1" || online[1] != "u2" {
		t.Fatalf("online = %v", online)
	}
}

func TestNotifyDeliversToEveryConnection(t *testing.T) {
	h := notify.NewHub()
	srv := newHubServer(t, h)

	// Same user, two tabs.
	c1 := dial(t, srv, "u1")
	readEvent(t, c1) // own online announcement
	c2 := dial(t, srv, "u1")
	readEvent(t, c1) // re-announcement after the second connection
	readEvent(t, c2)

	h.Notify("u1", notify.EventNewMessage, map[string]string{"body": "hola"})

	for _, conn := range []*websocket.Conn{c1, c2} {
		env := readEvent(t, conn)
		if env.Event != notify.EventNewMessage {
			t.Fatalf("event = %q, want %q", env.Event, notify.EventNewMessage)
		}
		var payload map[string]string
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if payload["body"] != "hola" {
			t.Fatalf("payload = %v", payload)
		}
	}
}

func TestNotifyOfflineUserIsDropped(t *testing.T) {
	h := notify.NewHub()
	// No connections at all; must not block or panic.
	h.Notify("ghost", notify.EventNewMessage, "hi")
	if got := h.Online(); len(got) != 0 {
		t.Fatalf("online = %v", got)
	}
}

func TestOnlineTracksDisconnects(t *testing.T) {
	h := notify.NewHub()
	srv := newHubServer(t, h)

	conn := dial(t, srv, "u1")
	waitFor(t, func() bool { return len(h.Online()) == 1 })
	conn.Close()
	waitFor(t, func() bool { return len(h.Online()) == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
