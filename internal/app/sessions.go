package app

import (
	"fmt"
	"time"

	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/google/uuid"
)

// Session is one active pair.
type Session struct {
	ID        domain.SessionID
	Caller    domain.ConnID
	Callee    domain.ConnID
	Reason    domain.MatchReason
	CreatedAt time.Time
}

func (s *Session) Members() [2]domain.ConnID {
	return [2]domain.ConnID{s.Caller, s.Callee}
}

// Partner returns the other member, or false if id is not a member.
func (s *Session) Partner(id domain.ConnID) (domain.ConnID, bool) {
	switch id {
	case s.Caller:
		return s.Callee, true
	case s.Callee:
		return s.Caller, true
	default:
		return "", false
	}
}

func (s *Session) RoleOf(id domain.ConnID) domain.Role {
	if id == s.Caller {
		return domain.RoleCaller
	}
	return domain.RoleCallee
}

// Sessions is the session store. It is not safe for concurrent use; the
// orchestrator owns it.
type Sessions struct {
	byID   map[domain.SessionID]*Session
	byConn map[domain.ConnID]domain.SessionID
	newID  func() string
	now    func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{
		byID:   make(map[domain.SessionID]*Session),
		byConn: make(map[domain.ConnID]domain.SessionID),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Create records a session between a and b with roles assigned by id order.
// Pairing a connection with itself, or with a connection that is already in
// a session, is an internal consistency fault and panics.
func (s *Sessions) Create(a, b domain.ConnID, reason domain.MatchReason) *Session {
	if a == b {
		panic(fmt.Sprintf("sessions: self-pairing of %q", a))
	}
	for _, id := range []domain.ConnID{a, b} {
		if sid, ok := s.byConn[id]; ok {
			panic(fmt.Sprintf("sessions: %q already in session %q", id, sid))
		}
	}

	caller, callee := domain.RolesFor(a, b)
	sess := &Session{
		ID:        s.uniqueID(),
		Caller:    caller,
		Callee:    callee,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	s.byID[sess.ID] = sess
	s.byConn[caller] = sess.ID
	s.byConn[callee] = sess.ID
	return sess
}

func (s *Sessions) uniqueID() domain.SessionID {
	for {
		id := domain.SessionID(s.newID())
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}

func (s *Sessions) Get(sid domain.SessionID) (*Session, bool) {
	sess, ok := s.byID[sid]
	return sess, ok
}

// Of resolves the session id belongs to.
func (s *Sessions) Of(id domain.ConnID) (*Session, bool) {
	sid, ok := s.byConn[id]
	if !ok {
		return nil, false
	}
	return s.Get(sid)
}

func (s *Sessions) Remove(sid domain.SessionID) (*Session, bool) {
	sess, ok := s.byID[sid]
	if !ok {
		return nil, false
	}
	delete(s.byID, sid)
	for _, id := range sess.Members() {
		delete(s.byConn, id)
	}
	return sess, true
}

func (s *Sessions) Len() int { return len(s.byID) }

// All lists every active session.
func (s *Sessions) All() []*Session {
	out := make([]*Session, 0, len(s.byID))
	for _, sess := range s.byID {
		out = append(out, sess)
	}
	return out
}
