package app

import (
	"github.com/dkeye/Jusssmile/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens when a connection cannot keep up with its
// outbound notifications.
type Policy interface {
	OnBackPressure(id domain.ConnID, n domain.Notification) BackpressureAction
}

// SimplePolicy disconnects any connection whose buffer is full.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.ConnID, domain.Notification) BackpressureAction {
	return KickMember
}

// SignalDropPolicy tolerates lost chat and candidate traffic but disconnects
// a connection that would miss a lifecycle notification.
type SignalDropPolicy struct{}

func (SignalDropPolicy) OnBackPressure(_ domain.ConnID, n domain.Notification) BackpressureAction {
	if sig, ok := n.(domain.Signal); ok {
		switch sig.Kind {
		case domain.KindChat, domain.KindCandidate, domain.KindGeneric:
			return DropFrame
		}
	}
	return KickMember
}
