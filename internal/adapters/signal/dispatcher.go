package signal

import (
	"errors"

	"github.com/dkeye/Jusssmile/internal/app"
	"github.com/dkeye/Jusssmile/internal/core"
	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/dkeye/Jusssmile/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Dispatcher delivers engine notifications over each connection's signal
// transport and applies the backpressure policy. A kicked connection is torn
// down on its own goroutine since Notify runs under the engine lock.
type Dispatcher struct {
	Registry *app.Registry
	Policy   app.Policy
}

func (d *Dispatcher) Notify(to domain.ConnID, n domain.Notification) {
	conn, ok := d.Registry.Signal(to)
	if !ok {
		log.Debug().Str("module", "signal").Str("conn", string(to)).Str("type", n.Type()).Msg("notify: connection gone")
		return
	}
	b, err := EncodeNotification(n)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("notify: encode")
		return
	}

	err = conn.TrySend(b)
	if err == nil || !errors.Is(err, core.ErrBackpressure) || d.Policy == nil {
		return
	}
	switch d.Policy.OnBackPressure(to, n) {
	case app.KickMember:
		metrics.Backpressure.WithLabelValues("kick").Inc()
		log.Warn().Str("module", "signal").Str("conn", string(to)).Str("type", n.Type()).Msg("slow connection, kicking")
		go d.kick(to, conn)
	case app.DropFrame:
		metrics.Backpressure.WithLabelValues("drop").Inc()
		log.Debug().Str("module", "signal").Str("conn", string(to)).Str("type", n.Type()).Msg("slow connection, dropped")
	case app.NoAction:
	}
}

func (d *Dispatcher) kick(id domain.ConnID, conn core.SignalConnection) {
	d.Registry.Cancel(id)
	conn.Close()
}
