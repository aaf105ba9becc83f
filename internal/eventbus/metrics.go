package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics регистрирует счётчики шины в reg. Значения читаются из Metrics() при каждом сборе.
// backend попадает в константную метку: memory или jetstream.
func RegisterMetrics(bus EventBus, reg prometheus.Registerer, backend string) error {
	labels := prometheus.Labels{"backend": backend}
	stat := func(pick func(Stats) float64) func() float64 {
		return func() float64 { return pick(bus.Metrics()) }
	}

	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "eventbus",
			Name:        "messages_published_total",
			Help:        "Общее число опубликованных сообщений.",
			ConstLabels: labels,
		}, stat(func(s Stats) float64 { return float64(s.Published) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "eventbus",
			Name:        "messages_consumed_total",
			Help:        "Общее число доставленных подписчикам сообщений.",
			ConstLabels: labels,
		}, stat(func(s Stats) float64 { return float64(s.Consumed) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "eventbus",
			Name:        "messages_dropped_total",
			Help:        "Сообщений, отброшенных из-за ошибок или переполнения буфера.",
			ConstLabels: labels,
		}, stat(func(s Stats) float64 { return float64(s.Dropped) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "eventbus",
			Name:        "messages_inflight",
			Help:        "Сообщений в очереди шины, ещё не разосланных.",
			ConstLabels: labels,
		}, stat(func(s Stats) float64 { return float64(s.InFlight) })),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
