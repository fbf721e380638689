package app

import (
	"github.com/dkeye/Jusssmile/internal/domain"
)

// Pair is two waiters selected by the matcher, already removed from the pool.
// A waited longer than B.
type Pair struct {
	A, B   domain.ConnID
	Reason domain.MatchReason
}

// Next runs one step of the matching algorithm and reports false at the
// fixpoint. Exact matches within a key are tried before wildcard
// cross-matches; among candidate keys the one with the oldest head wins.
func (p *Pool) Next() (Pair, bool) {
	if key, ok := p.oldestKey(func(k domain.MatchKey, n int) bool { return n >= 2 }); ok {
		a := p.pop(key)
		b := p.pop(key)
		return Pair{A: a.ID, B: b.ID, Reason: domain.ReasonExact}, true
	}

	if len(p.queues[domain.AnyKey]) == 0 {
		return Pair{}, false
	}
	key, ok := p.oldestKey(func(k domain.MatchKey, n int) bool { return k != domain.AnyKey && n > 0 })
	if !ok {
		return Pair{}, false
	}
	a := p.pop(key)
	b := p.pop(domain.AnyKey)
	if b.seq < a.seq {
		a, b = b, a
	}
	return Pair{A: a.ID, B: b.ID, Reason: domain.ReasonCross}, true
}

func (p *Pool) oldestKey(eligible func(domain.MatchKey, int) bool) (domain.MatchKey, bool) {
	var (
		best    domain.MatchKey
		bestSeq uint64
		found   bool
	)
	for key, q := range p.queues {
		if !eligible(key, len(q)) {
			continue
		}
		if !found || q[0].seq < bestSeq {
			best, bestSeq, found = key, q[0].seq, true
		}
	}
	return best, found
}
