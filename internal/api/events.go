package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/events"
	"github.com/tessera-app/tessera/internal/middleware"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// EventsHandler streams a user's live events (match created/ended,
// message received) over a WebSocket. The socket is write-only from the
// server's point of view: all mutations go through the REST endpoints,
// the socket only mirrors what Redis fans out.
type EventsHandler struct {
	publisher *events.Publisher
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

func NewEventsHandler(publisher *events.Publisher, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		publisher: publisher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// Stream handles GET /v1/events (WebSocket upgrade).
func (h *EventsHandler) Stream(c *gin.Context) {
	userID := middleware.GetUserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
		return
	}

	// The subscription outlives the handler (the connection is hijacked),
	// so it hangs off the background context and is torn down by the read
	// pump when the socket closes.
	sub := h.publisher.Subscribe(context.Background(), userID)

	// Read pump: the client sends nothing meaningful, but reading is
	// what surfaces closes and pongs. It also tears down the
	// subscription so the write pump's channel drains and exits.
	go func() {
		defer sub.Close()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Write pump: forward Redis payloads verbatim (they are already the
	// JSON event envelope) and keep the connection alive with pings.
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer func() {
			ticker.Stop()
			conn.Close()
		}()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					h.logger.Debug("event stream closed",
						zap.String("user", userID.String()),
						zap.Error(err),
					)
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
}
