package http

import (
	"net/http"
	"time"

	"drc-backend/internal/logger"

	"github.com/gorilla/mux"
)

// Handlers bundles the handler dependencies for route registration
type Handlers struct {
	Scan        *ScanHandler
	Transaction *TransactionHandler
	Container   *ContainerHandler
	User        *UserHandler
	RFID        *RFIDHandler
}

// NewRouter builds the API router with all routes registered
func NewRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogging)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	RegisterScanRoutes(router, h.Scan)
	RegisterTransactionRoutes(router, h.Transaction)
	RegisterContainerRoutes(router, h.Container)
	RegisterUserRoutes(router, h.User)
	RegisterRFIDRoutes(router, h.RFID)

	return router
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
