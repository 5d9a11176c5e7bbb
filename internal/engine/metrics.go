package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики движка
var (
	DroppedUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "engine",
		Name:      "dropped_price_updates_total",
		Help:      "Ценовые обновления, сброшенные из-за переполнения шарда",
	}, []string{"symbol"})

	RiskCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "engine",
		Name:      "risk_cycles_total",
		Help:      "Завершённые проходы риск-оценки",
	})
)
