package signal

import (
	"context"
	"net/http"
	"sync"

	"github.com/dkeye/Jusssmile/internal/app/orch"
	"github.com/dkeye/Jusssmile/internal/config"
	"github.com/dkeye/Jusssmile/internal/core"
	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type SignalWSController struct {
	Orch       *orch.Orchestrator
	Cfg        *config.Config
	Limiter    *ChurnLimiter
	ICEServers []webrtc.ICEServer

	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) (*SignalWSController, error) {
	ice, err := cfg.WebRTCICEServers()
	if err != nil {
		return nil, err
	}
	ctl := &SignalWSController{
		Orch:       o,
		Cfg:        cfg,
		Limiter:    NewChurnLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval),
		ICEServers: ice,
	}
	ctl.upgrader = websocket.Upgrader{CheckOrigin: ctl.checkOrigin}
	return ctl, nil
}

// checkOrigin allows every origin unless allowed_origins is configured.
func (ctl *SignalWSController) checkOrigin(r *http.Request) bool {
	if len(ctl.Cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range ctl.Cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *wsSignalConn {
	return &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	id := domain.ConnID(uuid.NewString())
	token := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("client", token).Msg("new WS connection")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := newWsSignalConn(ws, ctl.Cfg.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)
	if !ctl.Orch.Register(id, conn, cancel) {
		log.Error().Str("module", "signal").Str("conn", string(id)).Msg("connection id collision")
		cancel()
		conn.Close()
		return
	}

	ctl.sendJSON(conn, helloMessage{Type: "hello", ID: id, ICEServers: ctl.ICEServers})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, token, conn)
}
