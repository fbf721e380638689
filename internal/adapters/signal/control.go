package signal

import (
	"github.com/dkeye/Jusssmile/internal/domain"
	"github.com/dkeye/Jusssmile/internal/metrics"
	"github.com/rs/zerolog/log"
)

// allow applies the churn limiter to join and skip requests. Requests are
// keyed by client token so that reconnecting does not reset the budget.
func (ctl *SignalWSController) allow(id domain.ConnID, token string, conn *wsSignalConn) bool {
	if ctl.Limiter == nil {
		return true
	}
	key := token
	if key == "" {
		key = string(id)
	}
	if ctl.Limiter.Allow(key) {
		return true
	}
	metrics.RateLimited.Inc()
	log.Warn().Str("module", "signal").Str("conn", string(id)).Str("client", token).Msg("rate limited")
	ctl.sendJSON(conn, errorMessage{Type: "error", Error: "rate_limited"})
	return false
}
