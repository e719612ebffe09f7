package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"photobook/internal/pkg/response"
	"photobook/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	configLoadTimeout = 10 * time.Second
)

type Handler struct {
	loader   ConfigLoader
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler builds the live quote endpoint. allowOrigin decides which
// browser origins may open a session.
func NewHandler(loader ConfigLoader, allowOrigin func(origin string) bool, log *zap.Logger) *Handler {
	return &Handler{
		loader: loader,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowOrigin(r.Header.Get("Origin"))
			},
		},
		log: log,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/quote", h.Serve)
}

// Serve upgrades to a websocket and runs one quote session on it.
//
// Endpoint: GET /ws/quote?service=wedding&photographer_id=12
func (h *Handler) Serve(c *gin.Context) {
	var photographerID int64
	if raw := c.Query("photographer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid photographer ID")
			return
		}
		photographerID = id
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("quote websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.log.With(zap.Int64("photographer_id", photographerID))
	log.Debug("quote session opened")

	in := make(chan ClientMessage)
	out := make(chan ServerMessage, 16)
	configs := make(chan pricing.Config, 1)

	go h.loadConfig(ctx, photographerID, configs, log)
	go writePump(ctx, cancel, conn, out)
	go readPump(ctx, conn, in, out)

	NewSession(c.Query("service"), log).Run(ctx, in, configs, out)
	log.Debug("quote session closed")
}

// loadConfig fetches the real price table. On failure the session keeps
// running on the defaults.
func (h *Handler) loadConfig(ctx context.Context, photographerID int64, configs chan<- pricing.Config, log *zap.Logger) {
	defer close(configs)

	ctx, cancel := context.WithTimeout(ctx, configLoadTimeout)
	defer cancel()

	cfg, err := h.loader.Load(ctx, photographerID)
	if err != nil {
		log.Warn("quote session config load failed, keeping defaults", zap.Error(err))
		return
	}
	configs <- cfg
}

func readPump(ctx context.Context, conn *websocket.Conn, in chan<- ClientMessage, out chan<- ServerMessage) {
	defer close(in)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			select {
			case out <- ServerMessage{Type: EventError, Error: &ErrorPayload{Code: "INVALID_JSON", Message: "Failed to parse message"}}:
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case in <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out <-chan ServerMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
