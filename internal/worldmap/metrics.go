package worldmap

import "github.com/prometheus/client_golang/prometheus"

// Prometheus widget metrics.
var (
	ticksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "worldmap_ticks_total",
		Help: "Total number of widget update ticks executed.",
	})
	celebrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "worldmap_celebrations_total",
		Help: "Total number of city celebration transitions observed.",
	})
	visibleGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "worldmap_visible",
		Help: "Whether the widget is currently considered visible (1) or not (0).",
	})
	pausedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "worldmap_paused",
		Help: "Whether the widget controller is paused (1) or running (0).",
	})
)

func init() {
	prometheus.MustRegister(ticksTotal)
	prometheus.MustRegister(celebrationsTotal)
	prometheus.MustRegister(visibleGauge)
	prometheus.MustRegister(pausedGauge)
}
