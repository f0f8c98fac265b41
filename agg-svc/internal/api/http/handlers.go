package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"overcooked-pos/agg-svc/internal/domain"
	"overcooked-pos/agg-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultSalesLimit = 10
	maxSalesLimit     = 100
)

type Handler struct {
	Store  service.StoreInterface
	Logger *zap.Logger
	// Now is overridable in tests.
	Now func() time.Time
}

func NewHandler(store service.StoreInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: store, Logger: logger, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/sales/today", h.salesToday).Methods("GET")
	r.HandleFunc("/api/stock-alerts", h.stockAlerts).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "agg-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) salesToday(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = domain.DayOf(h.Now())
	} else if _, err := time.Parse(domain.DayLayout, day); err != nil {
		http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	limit := defaultSalesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxSalesLimit)
	}

	sales, err := h.Store.TopSales(r.Context(), day, int64(limit))
	if err != nil {
		h.Logger.Error("load sales failed", zap.String("day", day), zap.Error(err))
		http.Error(w, "aggregates unavailable", http.StatusServiceUnavailable)
		return
	}
	if sales == nil {
		sales = []domain.ProductSales{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"day": day, "products": sales})
}

func (h *Handler) stockAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Store.LowStock(r.Context())
	if err != nil {
		h.Logger.Error("load stock alerts failed", zap.Error(err))
		http.Error(w, "aggregates unavailable", http.StatusServiceUnavailable)
		return
	}
	if alerts == nil {
		alerts = []domain.StockAlert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}
