package handlers

import (
	"net/http"
	"time"

	"motion_dashboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// updateBuffer absorbs bursts; a client that cannot drain it loses
	// intermediate frames, never the connection.
	updateBuffer = 64
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type string      `json:"type"` // events | status | triggers
	Data interface{} `json:"data,omitempty"`
}

type triggerPayload struct {
	Triggers []models.TriggerEvent `json:"triggers"`
	Stats    models.TriggerStats   `json:"stats"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// wsConnect streams event, status, and trigger updates. Subscribing replays
// the current snapshots synchronously, so a client always receives the full
// picture before any live update.
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	updates := make(chan wsEnvelope, updateBuffer)
	push := func(env wsEnvelope) {
		select {
		case updates <- env:
		default:
			if h.log != nil {
				h.log.Debugw("ws_update_dropped", "type", env.Type)
			}
		}
	}

	unsubEvents := h.services.Monitor.SubscribeEvents(func(events []models.MotionEvent) {
		push(wsEnvelope{Type: "events", Data: events})
	})
	defer unsubEvents()

	unsubStatus := h.services.Monitor.SubscribeStatus(func(st models.SystemStatus) {
		st.IsOnline = h.services.Monitor.Fresh()
		push(wsEnvelope{Type: "status", Data: st})
	})
	defer unsubStatus()

	unsubTriggers := h.services.Triggers.Subscribe(func(triggers []models.TriggerEvent, stats models.TriggerStats) {
		push(wsEnvelope{Type: "triggers", Data: triggerPayload{Triggers: triggers, Stats: stats}})
	})
	defer unsubTriggers()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case env := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}
