package alert

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics expone contadores de alarmas; un *Metrics nil no hace nada.
type Metrics struct {
	fired       prometheus.Counter
	ended       *prometheus.CounterVec
	loopsActive prometheus.Gauge
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics registra una sola vez en el registry global.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fired := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthdir",
		Subsystem: "alert",
		Name:      "alarms_fired_total",
		Help:      "Alarms raised by reminder alert loops.",
	})
	ended := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthdir",
		Subsystem: "alert",
		Name:      "alarms_ended_total",
		Help:      "Alarms ended, by reason.",
	}, []string{"reason"})
	loopsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthdir",
		Subsystem: "alert",
		Name:      "loops_active",
		Help:      "Users with alerts enabled.",
	})

	collectors := []prometheus.Collector{fired, ended, loopsActive}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			already, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				panic(err)
			}
			switch c {
			case fired:
				fired = already.ExistingCollector.(prometheus.Counter)
			case ended:
				ended = already.ExistingCollector.(*prometheus.CounterVec)
			case loopsActive:
				loopsActive = already.ExistingCollector.(prometheus.Gauge)
			}
		}
	}

	return &Metrics{fired: fired, ended: ended, loopsActive: loopsActive}
}

func (m *Metrics) alarmFired() {
	if m == nil {
		return
	}
	m.fired.Inc()
}

func (m *Metrics) alarmEnded(reason EndReason) {
	if m == nil {
		return
	}
	m.ended.WithLabelValues(string(reason)).Inc()
}

func (m *Metrics) setLoops(n int) {
	if m == nil {
		return
	}
	m.loopsActive.Set(float64(n))
}
