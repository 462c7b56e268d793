package api

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type dispatchMetrics struct {
	logger *log.Logger
	event  string
	connID string
	start  time.Time
}

func newDispatchMetrics(logger *log.Logger, event, connID string) *dispatchMetrics {
	return &dispatchMetrics{
		logger: logger,
		event:  event,
		connID: connID,
		start:  time.Now(),
	}
}

func (m *dispatchMetrics) Log(err error) {
	if m == nil || m.logger == nil {
		return
	}

	fields := log.Fields{
		"event":       m.event,
		"conn":        m.connID,
		"dispatch_ms": durationToMillis(time.Since(m.start)),
	}
	if err != nil {
		fields["error"] = err.Error()
		m.logger.WithFields(fields).Warn("socket.dispatch.rejected")
		return
	}
	m.logger.WithFields(fields).Debug("socket.dispatch")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
