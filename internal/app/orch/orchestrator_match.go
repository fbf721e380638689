package orch

import (
	"github.com/dkeye/Jusssmile/internal/app"
	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/dkeye/Jusssmile/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Join stores fresh metadata for id and puts it in the waiting pool. A
// paired connection releases its session first; the partner is told and
// left idle.
func (o *Orchestrator) Join(id domain.ConnID, meta domain.Meta) {
	o.step(func(out *outbox) {
		if !o.Registry.Exists(id) {
			return
		}
		meta = meta.Normalize()
		o.Registry.SetMeta(id, meta)
		if sess, ok := o.Sessions.Of(id); ok {
			o.endSession(sess, id, causeRejoin, out)
		}
		o.enqueue(id, meta, out)
		o.match(out)
	})
}

func (o *Orchestrator) enqueue(id domain.ConnID, meta domain.Meta, out *outbox) {
	key := meta.MatchKey()
	o.Pool.Enqueue(id, key)
	o.Registry.SetState(id, domain.StateQueued, "")
	out.push(id, domain.Queued{Meta: meta})
	log.Info().Str("module", "app.orch").Str("conn", string(id)).Str("key", string(key)).Int("waiting", o.Pool.Len()).Msg("queued")
}

// match pairs waiters until the pool reaches its fixpoint. Each round takes
// two entries out and puts back at most one.
func (o *Orchestrator) match(out *outbox) {
	for {
		pair, ok := o.Pool.Next()
		if !ok {
			return
		}
		o.createSession(pair, out)
	}
}

func (o *Orchestrator) createSession(pair app.Pair, out *outbox) {
	metaA, okA := o.Registry.Meta(pair.A)
	metaB, okB := o.Registry.Meta(pair.B)
	if !okA || !okB {
		// One side went away; the survivor goes back to waiting.
		for _, s := range []struct {
			id   domain.ConnID
			meta domain.Meta
			live bool
		}{{pair.A, metaA, okA}, {pair.B, metaB, okB}} {
			if s.live {
				o.Pool.Enqueue(s.id, s.meta.MatchKey())
			} else {
				log.Warn().Str("module", "app.orch").Str("conn", string(s.id)).Msg("stale waiter discarded")
			}
		}
		return
	}

	sess := o.Sessions.Create(pair.A, pair.B, pair.Reason)
	for _, id := range sess.Members() {
		o.Registry.SetState(id, domain.StatePaired, sess.ID)
	}
	metas := map[domain.ConnID]domain.Meta{pair.A: metaA, pair.B: metaB}
	for _, id := range sess.Members() {
		partner, _ := sess.Partner(id)
		out.push(id, domain.Matched{
			SessionID:   sess.ID,
			PartnerID:   partner,
			Role:        sess.RoleOf(id),
			PartnerMeta: metas[partner],
			Reason:      sess.Reason,
		})
	}
	metrics.MatchesTotal.WithLabelValues(string(sess.Reason)).Inc()
	log.Info().
		Str("module", "app.orch").
		Str("session", string(sess.ID)).
		Str("caller", string(sess.Caller)).
		Str("callee", string(sess.Callee)).
		Str("reason", string(sess.Reason)).
		Msg("session created")
}
