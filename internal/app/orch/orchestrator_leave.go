package orch

import (
	"github.com/dkeye/Jusssmile/internal/app"
	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/dkeye/Jusssmile/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	causeSkip       = "skip"
	causeStop       = "stop"
	causeDisconnect = "disconnect"
	causeRejoin     = "rejoin"
)

// Skip ends id's session, if any, and puts id back in the pool with the
// metadata it joined with. The partner is told and stays idle.
func (o *Orchestrator) Skip(id domain.ConnID) {
	o.step(func(out *outbox) {
		meta, ok := o.Registry.Meta(id)
		if !ok {
			return
		}
		if sess, ok := o.Sessions.Of(id); ok {
			o.endSession(sess, id, causeSkip, out)
		}
		o.enqueue(id, meta, out)
		o.match(out)
	})
}

// Stop takes id out of the pool or its session without re-queueing anyone.
func (o *Orchestrator) Stop(id domain.ConnID) {
	o.step(func(out *outbox) {
		if !o.Registry.Exists(id) {
			return
		}
		o.release(id, causeStop, out)
		o.Registry.SetState(id, domain.StateIdle, "")
		log.Info().Str("module", "app.orch").Str("conn", string(id)).Msg("stopped")
	})
}

// OnDisconnect is the terminal removal of id after its transport closed.
func (o *Orchestrator) OnDisconnect(id domain.ConnID) {
	o.step(func(out *outbox) {
		if !o.Registry.Exists(id) {
			return
		}
		o.release(id, causeDisconnect, out)
		o.Registry.Unregister(id)
	})
}

func (o *Orchestrator) release(id domain.ConnID, cause string, out *outbox) {
	if o.Pool.Dequeue(id) {
		return
	}
	if sess, ok := o.Sessions.Of(id); ok {
		o.endSession(sess, id, cause, out)
	}
}

// endSession removes sess. The member that did not cause it is set idle
// and receives a partner-left notification.
func (o *Orchestrator) endSession(sess *app.Session, causedBy domain.ConnID, cause string, out *outbox) {
	o.Sessions.Remove(sess.ID)
	o.Registry.SetState(causedBy, domain.StateIdle, "")
	if partner, ok := sess.Partner(causedBy); ok && o.Registry.Exists(partner) {
		o.Registry.SetState(partner, domain.StateIdle, "")
		out.push(partner, domain.PartnerLeft{})
	}
	metrics.SessionsEnded.WithLabelValues(cause).Inc()
	log.Info().
		Str("module", "app.orch").
		Str("session", string(sess.ID)).
		Str("by", string(causedBy)).
		Str("cause", cause).
		Msg("session ended")
}
