package core

import "github.com/dkeye/Jusssmile/internal/domain"

// Notifier delivers engine notifications to a single connection.
// Notify runs under the engine lock: it must not block or call back into
// the engine, and it must tolerate unknown ids.
type Notifier interface {
	Notify(to domain.ConnID, n domain.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(to domain.ConnID, n domain.Notification)

func (f NotifierFunc) Notify(to domain.ConnID, n domain.Notification) { f(to, n) }
