package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"restro-qr/models"
	"restro-qr/notify"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Message is the frame pushed to staff displays.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// SocketController streams a restaurant's notifications to its staff display.
type SocketController struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

// NewSocketController accepts browsers from allowedOrigins; an empty list or
// "*" accepts any origin.
func NewSocketController(hub *notify.Hub, allowedOrigins []string, log *zap.SugaredLogger) *SocketController {
	return &SocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

// HandleWebSocket serves GET /ws?restaurant=<slug>. The subscription exists
// before the handshake completes, so every event published after the client
// sees the upgrade is delivered.
func (sc *SocketController) HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Query("restaurant"))
		if slug == "" {
			writeError(c, sc.log, models.ErrInvalidRequestBody)
			return
		}

		sub := sc.hub.Subscribe(slug)
		conn, err := sc.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			sub.Close()
			sc.log.Warnw("websocket upgrade failed", "restaurant", slug, "error", err)
			return
		}
		sc.log.Debugw("staff display connected", "restaurant", slug, "remote", conn.RemoteAddr().String())

		go sc.readPump(conn, sub)
		sc.writePump(conn, sub)
	}
}

// readPump only watches for the client going away; displays send nothing
// the server acts on.
func (sc *SocketController) readPump(conn *websocket.Conn, sub *notify.Subscription) {
	defer sub.Close()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (sc *SocketController) writePump(conn *websocket.Conn, sub *notify.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		conn.Close()
	}()

	for {
		select {
		case n, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(Message{Event: n.Event}); err != nil {
				sc.log.Debugw("websocket write failed", "event", n.Event, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
