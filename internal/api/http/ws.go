package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/elderlango/ReactChat/internal/auth"
	"github.com/elderlango/ReactChat/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The socket is gated by the token below; cross-origin pages can't read
	// the cookie, so the origin header isn't load-bearing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws — authenticated WebSocket upgrade; the hub takes over from there.
func WSHandler(tokens *auth.Service, hub *notify.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := auth.TokenFromRequest(r)
		if tok == "" {
			writeErr(w, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := tokens.Parse(tok)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "bad token")
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws: upgrade failed: %v", err)
			return
		}
		hub.Serve(claims.Sub, conn)
	}
}
