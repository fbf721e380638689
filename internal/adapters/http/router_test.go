package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Jusssmile/internal/adapters/signal"
	"github.com/dkeye/Jusssmile/internal/app"
	"github.com/dkeye/Jusssmile/internal/app/orch"
	"github.com/dkeye/Jusssmile/internal/config"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, tweak func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Mode = "test"
	if tweak != nil {
		tweak(cfg)
	}

	o := orch.New(nil)
	o.Notifier = &signal.Dispatcher{Registry: o.Registry, Policy: app.SimplePolicy{}}
	o.Paranoid = true

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r, err := SetupRouter(ctx, cfg, o)
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, string) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	hello := read(t, ws)
	require.Equal(t, "hello", hello["type"])
	id, _ := hello["id"].(string)
	require.NotEmpty(t, id)
	servers, _ := hello["iceServers"].([]any)
	assert.Len(t, servers, 1)
	return ws, id
}

func read(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func send(t *testing.T, ws *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func status(t *testing.T, srv *httptest.Server) orch.Stats {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st orch.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

func TestLiveness(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "SmileSessions=")
}

func TestSignalFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	assert.Equal(t, orch.Stats{}, status(t, srv))

	a, idA := dial(t, srv)
	b, idB := dial(t, srv)
	assert.Equal(t, orch.Stats{Connections: 2}, status(t, srv))

	send(t, a, `{"type":"join","meta":{"displayName":"Ann","wantKey":"music"}}`)
	queued := read(t, a)
	assert.Equal(t, "queued", queued["type"])
	assert.Equal(t, orch.Stats{Connections: 2, Waiting: 1}, status(t, srv))

	send(t, b, `{"type":"join","meta":{"displayName":"Bob","wantKey":"MUSIC"}}`)
	assert.Equal(t, "queued", read(t, b)["type"])

	matchedB := read(t, b)
	matchedA := read(t, a)
	require.Equal(t, "matched", matchedA["type"])
	require.Equal(t, "matched", matchedB["type"])
	assert.Equal(t, idB, matchedA["partnerId"])
	assert.Equal(t, idA, matchedB["partnerId"])
	assert.Equal(t, matchedA["sessionId"], matchedB["sessionId"])
	assert.Equal(t, "exact", matchedA["reason"])
	assert.NotEqual(t, matchedA["role"], matchedB["role"])
	assert.Equal(t, "Bob", matchedA["partnerMeta"].(map[string]any)["displayName"])
	assert.Equal(t, orch.Stats{Connections: 2, Sessions: 1}, status(t, srv))

	// a target field is ignored; the partner is the only destination
	send(t, a, `{"type":"signal","to":"`+idA+`","kind":"offer","payload":{"sdp":"v=0"}}`)
	sig := read(t, b)
	assert.Equal(t, "signal", sig["type"])
	assert.Equal(t, "offer", sig["kind"])
	assert.Equal(t, map[string]any{"sdp": "v=0"}, sig["payload"])

	send(t, b, `{"type":"ping"}`)
	assert.Equal(t, "pong", read(t, b)["type"])

	require.NoError(t, a.Close())
	assert.Equal(t, "partner_left", read(t, b)["type"])

	assert.Eventually(t, func() bool {
		return status(t, srv) == orch.Stats{Connections: 1}
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSignalFlow_RateLimited(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.JoinRateLimit = 1
	})

	ws, _ := dial(t, srv)
	send(t, ws, `{"type":"join"}`)
	assert.Equal(t, "queued", read(t, ws)["type"])

	send(t, ws, `{"type":"next"}`)
	msg := read(t, ws)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "rate_limited", msg["error"])
}

func TestSignalFlow_MalformedIsDropped(t *testing.T) {
	srv := newTestServer(t, nil)

	ws, _ := dial(t, srv)
	send(t, ws, `{not json`)
	send(t, ws, `{"type":"teleport"}`)
	send(t, ws, `{"type":"ping"}`)
	assert.Equal(t, "pong", read(t, ws)["type"])
}
