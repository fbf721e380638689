package orch

import (
	"encoding/json"

	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/dkeye/Jusssmile/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Signal forwards payload verbatim to the other member of sender's session.
// The target is always derived from the sender's own session; without one
// the payload is dropped silently.
func (o *Orchestrator) Signal(sender domain.ConnID, kind domain.SignalKind, payload json.RawMessage) {
	o.step(func(out *outbox) {
		sess, ok := o.Sessions.Of(sender)
		if !ok {
			metrics.SignalsDropped.Inc()
			log.Debug().Str("module", "app.orch").Str("conn", string(sender)).Str("kind", string(kind)).Msg("signal dropped: not paired")
			return
		}
		partner, _ := sess.Partner(sender)
		if !o.Registry.Exists(partner) {
			metrics.SignalsDropped.Inc()
			log.Warn().Str("module", "app.orch").Str("session", string(sess.ID)).Str("conn", string(partner)).Msg("signal dropped: partner gone")
			return
		}
		out.push(partner, domain.Signal{Kind: kind, Payload: payload})
		metrics.SignalsRelayed.WithLabelValues(string(kind)).Inc()
	})
}
