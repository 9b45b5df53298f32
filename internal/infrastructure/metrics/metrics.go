package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Calculation metrics
	Replays             prometheus.Counter
	PeriodsRecomputed   prometheus.Counter
	PeriodsReplayed     prometheus.Gauge
	ReplayDuration      prometheus.Histogram
	RoundingAdjustments prometheus.Counter

	// Carry-forward metrics
	OutstandingHolders prometheus.Gauge
	OutstandingTotal   prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Replays: factory.NewCounter(prometheus.CounterOpts{
			Name: "profitshare_replays_total",
			Help: "Total history replays",
		}),
		PeriodsRecomputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "profitshare_periods_recomputed_total",
			Help: "Total periods recalculated during replays",
		}),
		PeriodsReplayed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "profitshare_periods",
			Help: "Number of periods in the last replayed history",
		}),
		ReplayDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "profitshare_replay_duration_seconds",
			Help:    "History replay duration",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		RoundingAdjustments: factory.NewCounter(prometheus.CounterOpts{
			Name: "profitshare_rounding_adjustments_total",
			Help: "Periods whose rounding delta was absorbed by a holder",
		}),

		OutstandingHolders: factory.NewGauge(prometheus.GaugeOpts{
			Name: "profitshare_carry_forward_holders",
			Help: "Holders with outstanding carry-forward debt",
		}),
		OutstandingTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "profitshare_carry_forward_total",
			Help: "Total outstanding carry-forward debt",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "profitshare_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),
	}
}

// ObserveReplay records one history replay.
func (m *Metrics) ObserveReplay(periods, recomputed int, duration time.Duration) {
	m.Replays.Inc()
	m.PeriodsReplayed.Set(float64(periods))
	m.PeriodsRecomputed.Add(float64(recomputed))
	m.ReplayDuration.Observe(duration.Seconds())
}

// ObserveRoundingAdjustments records periods that needed a rounding adjustment.
func (m *Metrics) ObserveRoundingAdjustments(count int) {
	m.RoundingAdjustments.Add(float64(count))
}

// SetOutstandingCarryForward publishes the debt still owed after the latest period.
func (m *Metrics) SetOutstandingCarryForward(holders int, total float64) {
	m.OutstandingHolders.Set(float64(holders))
	m.OutstandingTotal.Set(total)
}
