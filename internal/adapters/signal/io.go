package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			deadline := time.Now().Add(ctl.Cfg.WriteWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(
	ctx context.Context,
	cancel context.CancelFunc,
	id domain.ConnID,
	token string,
	c *wsSignalConn,
) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(id)
		cancel()
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(id)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("readPump read error")
				}
				return
			}
			_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.PongWait))
			ctl.handleSignal(id, token, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(id domain.ConnID, token string, c *wsSignalConn, data []byte) {
	cmd, err := ParseCommand(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("dropping bad message")
		return
	}

	switch cmd.Verb {
	case VerbJoin:
		if !ctl.allow(id, token, c) {
			return
		}
		log.Info().Str("module", "signal").Str("conn", string(id)).Str("want", cmd.Meta.WantKey).Msg("join")
		ctl.Orch.Join(id, cmd.Meta)
	case VerbSkip:
		if !ctl.allow(id, token, c) {
			return
		}
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("skip")
		ctl.Orch.Skip(id)
	case VerbStop:
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("stop")
		ctl.Orch.Stop(id)
	case VerbSignal:
		ctl.Orch.Signal(id, cmd.Kind, cmd.Payload)
	case VerbPing:
		ctl.sendJSON(c, replyMessage{Type: "pong"})
	}
}

func (ctl *SignalWSController) sendJSON(c *wsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
