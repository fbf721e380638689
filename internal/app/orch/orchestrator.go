package orch

import (
	"context"
	"sync"

	"github.com/dkeye/Jusssmile/internal/app"
	"github.com/dkeye/Jusssmile/internal/core"
	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/dkeye/Jusssmile/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Orchestrator owns the registry, the waiting pool and the session store.
// Every exported method is one atomic step under mu. Notifications produced
// by a step are handed to the Notifier before mu is released, so a
// connection sees them in the order the steps happened.
type Orchestrator struct {
	Registry *app.Registry
	Pool     *app.Pool
	Sessions *app.Sessions
	Notifier core.Notifier

	// Paranoid re-checks the cross-structure invariants after every step
	// and aborts the process on a violation.
	Paranoid bool

	mu sync.Mutex
}

func New(notifier core.Notifier) *Orchestrator {
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Pool:     app.NewPool(),
		Sessions: app.NewSessions(),
		Notifier: notifier,
	}
}

type outbound struct {
	to domain.ConnID
	n  domain.Notification
}

type outbox []outbound

func (b *outbox) push(to domain.ConnID, n domain.Notification) {
	*b = append(*b, outbound{to: to, n: n})
}

// step runs fn under the serialization lock and delivers what it queued.
// The Notifier must not block or call back into the orchestrator.
func (o *Orchestrator) step(fn func(out *outbox)) {
	var out outbox
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(&out)
	o.observe()
	if o.Paranoid {
		if err := o.snapshot().Check(); err != nil {
			log.Fatal().Err(err).Str("module", "app.orch").Msg("internal consistency fault")
		}
	}

	if o.Notifier == nil {
		return
	}
	for _, m := range out {
		o.Notifier.Notify(m.to, m.n)
	}
}

func (o *Orchestrator) observe() {
	metrics.ConnectionsActive.Set(float64(o.Registry.Len()))
	metrics.ConnectionsWaiting.Set(float64(o.Pool.Len()))
	metrics.SessionsActive.Set(float64(o.Sessions.Len()))
}

// Register creates an Idle connection bound to its transport.
func (o *Orchestrator) Register(id domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc) bool {
	var ok bool
	o.step(func(*outbox) {
		ok = o.Registry.Register(id, sig, cancel)
	})
	if ok {
		metrics.ConnectionsTotal.Inc()
	}
	return ok
}

// Stats are aggregate counts for status endpoints.
type Stats struct {
	Connections int `json:"connections"`
	Waiting     int `json:"waiting"`
	Sessions    int `json:"sessions"`
}

func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Stats{
		Connections: o.Registry.Len(),
		Waiting:     o.Pool.Len(),
		Sessions:    o.Sessions.Len(),
	}
}

// State reports id's lifecycle state.
func (o *Orchestrator) State(id domain.ConnID) (app.ConnState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Registry.State(id)
}

// Partner resolves the current session partner of id.
func (o *Orchestrator) Partner(id domain.ConnID) (domain.ConnID, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.Sessions.Of(id)
	if !ok {
		return "", false
	}
	return sess.Partner(id)
}
