package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Additional-Code/bistro/internal/config"
	"github.com/Additional-Code/bistro/internal/realtime"
)

// Handler bridges websocket connections to the broadcast hub.
type Handler struct {
	hub          *realtime.Hub
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewHandler constructs the websocket Handler.
func NewHandler(hub *realtime.Hub, cfg config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers connect from the dashboard and the customer page,
			// which are served from other origins in every deployment.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		writeTimeout: cfg.Realtime.WriteTimeout,
		pingInterval: cfg.Realtime.PingInterval,
		logger:       logger,
	}
}

// Register mounts the realtime endpoint.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/ws", h.serve)
}

// clientAction is an inbound room-management frame.
type clientAction struct {
	Action  string `json:"action"`
	OrderID int64  `json:"orderId,omitempty"`
}

func (h *Handler) serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	done := make(chan struct{})
	go h.writeLoop(conn, sub, done)

	for {
		var action clientAction
		if err := conn.ReadJSON(&action); err != nil {
			break
		}
		switch action.Action {
		case "join-admin":
			h.hub.JoinAdmin(sub)
		case "join-order":
			h.hub.JoinOrder(sub, action.OrderID)
		case "leave-order":
			h.hub.LeaveOrder(sub, action.OrderID)
		default:
			h.logger.Debug("unknown realtime action", zap.String("action", action.Action))
		}
	}

	close(done)
	conn.Close()
	return nil
}

// writeLoop pushes hub events and keepalive pings to the connection. It owns
// all writes; gorilla connections allow one concurrent writer.
func (h *Handler) writeLoop(conn *websocket.Conn, sub *realtime.Subscriber, done <-chan struct{}) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}
