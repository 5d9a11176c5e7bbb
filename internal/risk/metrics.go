package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики риск-ядра
// ============================================================

// EvaluationLatency - время одной оценки риска аккаунта
var EvaluationLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "propcore",
		Subsystem: "risk",
		Name:      "evaluation_latency_ms",
		Help:      "Latency of a single account risk evaluation in milliseconds",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	},
	[]string{"mode"},
)

// BreachesTotal - количество drawdown-пробоев по типам
var BreachesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "risk",
		Name:      "breaches_total",
		Help:      "Total number of drawdown breaches",
	},
	[]string{"kind"}, // daily, max
)

// DailyResetsTotal - количество успешных дневных сбросов
var DailyResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "risk",
		Name:      "daily_resets_total",
		Help:      "Total number of successful per-account daily resets",
	},
)

// DailyResetFailures - количество аккаунтов, пропущенных при сбросе
var DailyResetFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "risk",
		Name:      "daily_reset_failures_total",
		Help:      "Total number of accounts skipped during daily reset due to errors",
	},
)

// CheckpointEvaluationsTotal - результаты deadline-оценок этапов
var CheckpointEvaluationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "risk",
		Name:      "checkpoint_evaluations_total",
		Help:      "Total number of checkpoint deadline evaluations",
	},
	[]string{"outcome"}, // passed, failed
)

// WithdrawalsTotal - количество обработанных выводов профита
var WithdrawalsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "propcore",
		Subsystem: "risk",
		Name:      "withdrawals_total",
		Help:      "Total number of processed profit withdrawals",
	},
)
