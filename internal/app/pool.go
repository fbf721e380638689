package app

import (
	"time"

	"github.com/dkeye/Jusssmile/internal/domain"
)

// PoolEntry is one connection waiting for a partner.
type PoolEntry struct {
	ID         domain.ConnID
	Key        domain.MatchKey
	EnqueuedAt time.Time

	seq uint64
}

// Pool is the waiting pool: one FIFO queue per match key.
// It is not safe for concurrent use; the orchestrator owns it.
type Pool struct {
	queues map[domain.MatchKey][]PoolEntry
	index  map[domain.ConnID]domain.MatchKey
	seq    uint64
	now    func() time.Time
}

func NewPool() *Pool {
	return &Pool{
		queues: make(map[domain.MatchKey][]PoolEntry),
		index:  make(map[domain.ConnID]domain.MatchKey),
		now:    time.Now,
	}
}

// Enqueue appends id to the tail of key's queue, dropping any entry id
// already holds so that a connection occupies at most one slot.
func (p *Pool) Enqueue(id domain.ConnID, key domain.MatchKey) {
	p.Dequeue(id)
	p.seq++
	p.queues[key] = append(p.queues[key], PoolEntry{
		ID:         id,
		Key:        key,
		EnqueuedAt: p.now(),
		seq:        p.seq,
	})
	p.index[id] = key
}

// Dequeue removes id from whichever queue holds it.
func (p *Pool) Dequeue(id domain.ConnID) bool {
	key, ok := p.index[id]
	if !ok {
		return false
	}
	delete(p.index, id)
	q := p.queues[key]
	for i, e := range q {
		if e.ID == id {
			copy(q[i:], q[i+1:])
			q[len(q)-1] = PoolEntry{}
			q = q[:len(q)-1]
			break
		}
	}
	if len(q) == 0 {
		delete(p.queues, key)
	} else {
		p.queues[key] = q
	}
	return true
}

func (p *Pool) Contains(id domain.ConnID) bool {
	_, ok := p.index[id]
	return ok
}

func (p *Pool) KeyOf(id domain.ConnID) (domain.MatchKey, bool) {
	key, ok := p.index[id]
	return key, ok
}

func (p *Pool) Len() int { return len(p.index) }

// QueueLen is the number of waiters under key.
func (p *Pool) QueueLen(key domain.MatchKey) int { return len(p.queues[key]) }

// Entries lists every waiter, grouped by key, oldest first within a key.
func (p *Pool) Entries() []PoolEntry {
	out := make([]PoolEntry, 0, len(p.index))
	for _, q := range p.queues {
		out = append(out, q...)
	}
	return out
}

// compactCap is the capacity below which a queue is never reallocated on pop.
const compactCap = 64

func (p *Pool) pop(key domain.MatchKey) PoolEntry {
	q := p.queues[key]
	head := q[0]
	if len(q) == 1 {
		delete(p.queues, key)
	} else {
		q[0] = PoolEntry{}
		rest := q[1:]
		// Re-slicing keeps the popped prefix of the backing array alive.
		if cap(q) >= compactCap && len(rest) < cap(q)/4 {
			rest = append(make([]PoolEntry, 0, 2*len(rest)), rest...)
		}
		p.queues[key] = rest
	}
	delete(p.index, head.ID)
	return head
}
