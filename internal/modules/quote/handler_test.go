package quote

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photobook/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLoader struct {
	cfg   pricing.Config
	err   error
	delay time.Duration
}

func (s stubLoader) Load(ctx context.Context, _ int64) (pricing.Config, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return pricing.Config{}, ctx.Err()
	}
	return s.cfg, s.err
}

func dial(t *testing.T, loader ConfigLoader, query string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	NewHandler(loader, func(string) bool { return true }, zap.NewNop()).RegisterRoutes(router.Group("/"))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/quote" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestServe_InitialSnapshotThenConfig(t *testing.T) {
	cfg := pricing.DefaultConfig()
	cfg.Version = 2
	cfg.Packages.Wedding.Photography[pricing.TierBronze] = 900

	conn := dial(t, stubLoader{cfg: cfg, delay: 50 * time.Millisecond}, "?service=wedding&photographer_id=3")

	first := read(t, conn)
	require.Equal(t, EventSnapshot, first.Type)
	assert.Equal(t, pricing.ServiceWedding, first.Snapshot.Selection.ServiceType)
	assert.Equal(t, 785.0, first.Snapshot.Selection.TotalPrice)

	loaded := read(t, conn)
	assert.Equal(t, ReasonConfigLoaded, loaded.Reason)
	assert.Equal(t, 935.0, loaded.Snapshot.Selection.TotalPrice)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgToggleAddon, "value": "drone"}))
	reply := read(t, conn)
	assert.Equal(t, 1235.0, reply.Snapshot.Selection.TotalPrice)
}

func TestServe_ConfigFailureKeepsDefaults(t *testing.T) {
	conn := dial(t, stubLoader{err: errors.New("db down")}, "")

	first := read(t, conn)
	assert.Equal(t, 185.0, first.Snapshot.Selection.TotalPrice)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgSetPeopleCount, "value": 3}))
	reply := read(t, conn)
	assert.Equal(t, ReasonAction, reply.Reason)
	assert.Equal(t, 285.0, reply.Snapshot.Selection.TotalPrice)
}

func TestServe_InvalidJSON(t *testing.T) {
	conn := dial(t, stubLoader{err: errors.New("skip")}, "")
	_ = read(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{nope")))
	reply := read(t, conn)
	assert.Equal(t, EventError, reply.Type)
	assert.Equal(t, "INVALID_JSON", reply.Error.Code)
}
