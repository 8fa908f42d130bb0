package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	parses    *prometheus.CounterVec
	duration  *prometheus.SummaryVec
	lruSize   prometheus.Gauge
	cacheHits prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leapfluff",
			Name:      "parses_total",
			Help:      "Parse requests by dialect and outcome.",
		}, []string{"dialect", "outcome"}),
		duration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:  "leapfluff",
			Name:       "parse_duration_seconds",
			Help:       "Time spent lexing and parsing, excluding cached results.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"dialect"}),
		lruSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leapfluff",
			Name:      "lru_entries",
			Help:      "Parse results held in memory.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leapfluff",
			Name:      "cache_hits_total",
			Help:      "Parse requests answered from memory.",
		}),
	}
	reg.MustRegister(
		m.parses,
		m.duration,
		m.lruSize,
		m.cacheHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
