package orch

import (
	"fmt"

	"github.com/dkeye/Jusssmile/internal/app"
	"github.com/dkeye/Jusssmile/internal/domain"
)

// Snapshot is a consistent copy of the engine state.
type Snapshot struct {
	Conns    map[domain.ConnID]app.ConnState
	Waiting  []app.PoolEntry
	Sessions []app.Session
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

func (o *Orchestrator) snapshot() Snapshot {
	all := o.Sessions.All()
	sessions := make([]app.Session, 0, len(all))
	for _, s := range all {
		sessions = append(sessions, *s)
	}
	return Snapshot{
		Conns:    o.Registry.States(),
		Waiting:  o.Pool.Entries(),
		Sessions: sessions,
	}
}

// Check verifies that pool and session membership are disjoint, duplicate
// free, made of live connections and agree with each connection's state.
func (s Snapshot) Check() error {
	seen := make(map[domain.ConnID]string)

	for _, e := range s.Waiting {
		if where, dup := seen[e.ID]; dup {
			return fmt.Errorf("%s waiting while already %s", e.ID, where)
		}
		seen[e.ID] = "waiting"
		st, ok := s.Conns[e.ID]
		if !ok {
			return fmt.Errorf("%s waiting but not registered", e.ID)
		}
		if st.State != domain.StateQueued {
			return fmt.Errorf("%s waiting in state %s", e.ID, st.State)
		}
	}

	for _, sess := range s.Sessions {
		if sess.Caller == sess.Callee {
			return fmt.Errorf("session %s pairs %s with itself", sess.ID, sess.Caller)
		}
		for _, id := range sess.Members() {
			if where, dup := seen[id]; dup {
				return fmt.Errorf("%s in session %s while already %s", id, sess.ID, where)
			}
			seen[id] = "in session " + string(sess.ID)
			st, ok := s.Conns[id]
			if !ok {
				return fmt.Errorf("%s in session %s but not registered", id, sess.ID)
			}
			if st.State != domain.StatePaired || st.Session != sess.ID {
				return fmt.Errorf("%s in session %s but state is %s/%s", id, sess.ID, st.State, st.Session)
			}
		}
	}

	for id, st := range s.Conns {
		if _, ok := seen[id]; !ok && st.State != domain.StateIdle {
			return fmt.Errorf("%s is %s but neither waiting nor paired", id, st.State)
		}
	}
	return nil
}
