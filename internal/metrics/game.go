// Package metrics содержит Prometheus-метрики игрового цикла.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mine_game"

// Game - метрики шахт и подземелий
type Game struct {
	cavesGenerated  *prometheus.CounterVec
	generationTime  *prometheus.HistogramVec
	generationRetry *prometheus.CounterVec
	rocksSpawned    *prometheus.CounterVec
	rocksMined      *prometheus.CounterVec
	rocksPresent    *prometheus.GaugeVec
	mobsDefeated    *prometheus.CounterVec
	mobsPresent     *prometheus.GaugeVec
	tickDuration    prometheus.Histogram
	saveErrors      prometheus.Counter
}

// NewGame создаёт метрики и регистрирует их в reg
func NewGame(reg prometheus.Registerer) (*Game, error) {
	g := &Game{
		cavesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "caves_generated_total",
			Help:      "Число построенных пещер по шахтам и причинам.",
		}, []string{"location", "reason"}),
		generationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cave_generation_seconds",
			Help:      "Время генерации пещеры.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"location"}),
		generationRetry: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cave_attempts_rejected_total",
			Help:      "Отклонённые попытки генерации пещеры.",
		}, []string{"location"}),
		rocksSpawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rocks_spawned_total",
			Help:      "Породы, появившиеся по таймеру.",
		}, []string{"location", "rock"}),
		rocksMined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rocks_mined_total",
			Help:      "Добытые породы.",
		}, []string{"location", "rock"}),
		rocksPresent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rocks_present",
			Help:      "Текущее число пород в шахте.",
		}, []string{"location"}),
		mobsDefeated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mobs_defeated_total",
			Help:      "Побеждённые мобы.",
		}, []string{"location", "mob"}),
		mobsPresent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mobs_present",
			Help:      "Текущее число мобов в подземелье.",
		}, []string{"location"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Длительность игрового тика.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		saveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_save_errors_total",
			Help:      "Ошибки сохранения снимков шахт.",
		}),
	}

	collectors := []prometheus.Collector{
		g.cavesGenerated, g.generationTime, g.generationRetry,
		g.rocksSpawned, g.rocksMined, g.rocksPresent,
		g.mobsDefeated, g.mobsPresent, g.tickDuration, g.saveErrors,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// CaveGenerated учитывает новую пещеру
func (g *Game) CaveGenerated(location, reason string, took time.Duration, rejected int) {
	g.cavesGenerated.WithLabelValues(location, reason).Inc()
	g.generationTime.WithLabelValues(location).Observe(took.Seconds())
	if rejected > 0 {
		g.generationRetry.WithLabelValues(location).Add(float64(rejected))
	}
}

// RockSpawned учитывает появление породы
func (g *Game) RockSpawned(location, rock string) {
	g.rocksSpawned.WithLabelValues(location, rock).Inc()
}

// RockMined учитывает добычу породы
func (g *Game) RockMined(location, rock string) {
	g.rocksMined.WithLabelValues(location, rock).Inc()
}

// SetRocks выставляет текущее число пород
func (g *Game) SetRocks(location string, n int) {
	g.rocksPresent.WithLabelValues(location).Set(float64(n))
}

// MobDefeated учитывает победу над мобом
func (g *Game) MobDefeated(location, mob string) {
	g.mobsDefeated.WithLabelValues(location, mob).Inc()
}

// SetMobs выставляет текущее число мобов
func (g *Game) SetMobs(location string, n int) {
	g.mobsPresent.WithLabelValues(location).Set(float64(n))
}

// ObserveTick фиксирует длительность тика
func (g *Game) ObserveTick(d time.Duration) {
	g.tickDuration.Observe(d.Seconds())
}

// SaveFailed учитывает ошибку сохранения
func (g *Game) SaveFailed() {
	g.saveErrors.Inc()
}
