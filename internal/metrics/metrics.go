// Package metrics exposes navigation activity as Prometheus counters.
package metrics

import (
	"log/slog"
	"strconv"

	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts navigation events. Register it once per process.
type Collector struct {
	navigations *prometheus.CounterVec
	backs       *prometheus.CounterVec
	restores    *prometheus.CounterVec
	malformed   prometheus.Counter
	logger      *slog.Logger
}

// New creates a Collector and registers it with reg.
// A nil logger disables event logging.
func New(reg prometheus.Registerer, logger *slog.Logger) (*Collector, error) {
	c := &Collector{
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawtrail_navigations_total",
				Help: "Total number of Navigate calls, by destination screen",
			},
			[]string{"to"},
		),
		backs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawtrail_back_total",
				Help: "Total number of Back calls, by whether they moved",
			},
			[]string{"navigated"},
		),
		restores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawtrail_restores_total",
				Help: "Total number of navigators restored, by restored screen",
			},
			[]string{"screen"},
		),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawtrail_malformed_checkpoints_total",
			Help: "Total number of checkpoints that failed to decode",
		}),
		logger: logger,
	}

	for _, col := range []prometheus.Collector{c.navigations, c.backs, c.restores, c.malformed} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks that record every event.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigate: func(e *domain.NavigationEvent) {
			c.navigations.WithLabelValues(e.To.String()).Inc()
			c.log(e)
		},
		OnBack: func(e *domain.NavigationEvent) {
			c.backs.WithLabelValues(strconv.FormatBool(e.Navigated)).Inc()
			c.log(e)
		},
		OnRestore: func(e *domain.NavigationEvent) {
			c.restores.WithLabelValues(e.To.String()).Inc()
			c.log(e)
		},
	}
}

// ObserveMalformed matches the session manager's malformed checkpoint handler.
func (c *Collector) ObserveMalformed(sessionID string, err error) {
	c.malformed.Inc()
	if c.logger != nil {
		c.logger.Warn("malformed checkpoint", "session_id", sessionID, "err", err)
	}
}

func (c *Collector) log(e *domain.NavigationEvent) {
	if c.logger == nil {
		return
	}
	c.logger.Info(string(e.Type),
		"from", e.From,
		"to", e.To,
		"navigated", e.Navigated,
	)
}
