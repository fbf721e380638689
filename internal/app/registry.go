package app

import (
	"context"
	"sync"

	"github.com/dkeye/Jusssmile/internal/core"
	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Meta    domain.Meta
	State   domain.State
	Session domain.SessionID
	Signal  core.SignalConnection
	Cancel  context.CancelFunc
}

// ConnState is a read-only view of a registered connection.
type ConnState struct {
	State   domain.State
	Session domain.SessionID
	Meta    domain.Meta
}

// Registry tracks every live connection. Lifecycle transitions are driven by
// the orchestrator; the transport only reads signal connections from it.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
	}
}

// Register creates an Idle connection. It reports false if id is already taken.
func (r *Registry) Register(id domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; ok {
		return false
	}
	r.conns[id] = &connEntry{
		Meta:   domain.NewMeta("", "", "", ""),
		State:  domain.StateIdle,
		Signal: sig,
		Cancel: cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
	return true
}

// Unregister discards the connection and its metadata.
func (r *Registry) Unregister(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unregistered connection")
	return true
}

func (r *Registry) Exists(id domain.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

// SetMeta is idempotent and a no-op for unknown ids.
func (r *Registry) SetMeta(id domain.ConnID, meta domain.Meta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.Meta = meta
	}
}

func (r *Registry) Meta(id domain.ConnID) (domain.Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Meta, true
	}
	return domain.Meta{}, false
}

func (r *Registry) State(id domain.ConnID) (ConnState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return ConnState{}, false
	}
	return ConnState{State: e.State, Session: e.Session, Meta: e.Meta}, true
}

// SetState records a lifecycle transition. The session id is kept only for Paired.
func (r *Registry) SetState(id domain.ConnID, st domain.State, sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return
	}
	e.State = st
	if st == domain.StatePaired {
		e.Session = sid
	} else {
		e.Session = ""
	}
}

func (r *Registry) Signal(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok && e.Signal != nil {
		return e.Signal, true
	}
	return nil, false
}

// Cancel stops the transport pumps bound to id.
func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// States returns a copy of every connection's lifecycle state.
func (r *Registry) States() map[domain.ConnID]ConnState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.ConnID]ConnState, len(r.conns))
	for id, e := range r.conns {
		out[id] = ConnState{State: e.State, Session: e.Session, Meta: e.Meta}
	}
	return out
}
