package matcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики матчера

// PriceUpdatesTotal - количество полученных ценовых обновлений
var PriceUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "matcher",
		Name:      "price_updates_total",
		Help:      "Total number of received price updates",
	},
	[]string{"symbol"},
)

// PriceUpdatesDebounced - количество пропущенных обновлений (debounce)
var PriceUpdatesDebounced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "matcher",
		Name:      "price_updates_debounced_total",
		Help:      "Total number of price updates skipped by the debounce policy",
	},
	[]string{"symbol"},
)

// FillsTotal - количество успешно исполненных ордеров
var FillsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "matcher",
		Name:      "fills_total",
		Help:      "Total number of successfully filled orders",
	},
	[]string{"symbol"},
)

// FillFailures - количество неудачных попыток исполнения
var FillFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "matcher",
		Name:      "fill_failures_total",
		Help:      "Total number of failed fill attempts (order left open for retry)",
	},
)
