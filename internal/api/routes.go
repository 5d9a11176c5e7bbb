package api

import (
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"propcore/internal/api/handlers"
	"propcore/internal/api/middleware"
	"propcore/internal/service"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	AccountService    *service.AccountService
	RiskService       *service.RiskService
	CheckpointService *service.CheckpointService

	// bcrypt-хеш API-токена (пустой = auth выключен)
	APITokenHash string

	Logger *zap.Logger
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	└── /accounts/{id}/
//	    ├── GET  /            - состояние аккаунта
//	    ├── GET  /events      - журнал аудит-событий
//	    ├── GET  /snapshots   - снимки equity
//	    ├── GET  /checkpoints - прогресс evaluation-этапов
//	    ├── POST /evaluate    - немедленная риск-оценка
//	    └── POST /withdraw    - вывод профита
//
// /metrics - Prometheus метрики
// /health  - health check
// /debug/pprof/ - профилирование (за DebugAuth)
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. Auth (только /api/v1)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	router.Use(middleware.CORS)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(deps.APITokenHash))

	if deps.AccountService != nil {
		h := handlers.NewAccountHandler(deps.AccountService)
		api.HandleFunc("/accounts/{id}", h.GetAccount).Methods("GET")
		api.HandleFunc("/accounts/{id}/events", h.GetEvents).Methods("GET")
		api.HandleFunc("/accounts/{id}/snapshots", h.GetSnapshots).Methods("GET")
	}

	if deps.RiskService != nil {
		h := handlers.NewRiskHandler(deps.RiskService)
		api.HandleFunc("/accounts/{id}/evaluate", h.EvaluateAccount).Methods("POST")
		api.HandleFunc("/accounts/{id}/withdraw", h.Withdraw).Methods("POST")
	}

	if deps.CheckpointService != nil {
		h := handlers.NewCheckpointHandler(deps.CheckpointService)
		api.HandleFunc("/accounts/{id}/checkpoints", h.GetProgress).Methods("GET")
	}

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	debug := router.PathPrefix("/debug/pprof").Subrouter()
	debug.Use(middleware.DebugAuth)
	debug.HandleFunc("/", pprof.Index)
	debug.HandleFunc("/profile", pprof.Profile)
	debug.HandleFunc("/trace", pprof.Trace)
	debug.HandleFunc("/{name}", func(w http.ResponseWriter, r *http.Request) {
		pprof.Handler(mux.Vars(r)["name"]).ServeHTTP(w, r)
	})

	return router
}
