package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/rankboard/internal/api/handlers"
	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(rankingHandler *handlers.RankingHandler, log *logger.Logger, m *metrics.Registry) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/options", rankingHandler.GetOptions).Methods("GET")

	// Ranking endpoints (fixed paths before the period pattern)
	api.HandleFunc("/rankings", rankingHandler.GetTable).Methods("GET")
	api.HandleFunc("/rankings/distribution", rankingHandler.GetDistribution).Methods("GET")
	api.HandleFunc("/rankings/trend", rankingHandler.GetTrend).Methods("GET")
	api.HandleFunc("/rankings/save", rankingHandler.Save).Methods("POST")
	api.HandleFunc("/rankings/{period:[0-9]{6}}", rankingHandler.GetTableByPeriod).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
	})

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log, m))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "rankboard-api",
	})
}
