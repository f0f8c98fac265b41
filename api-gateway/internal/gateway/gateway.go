package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	PosSvcURL string
	AggSvcURL string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *zap.Logger
}

func NewGateway(config Config, client HTTPClient, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		config: Config{
			PosSvcURL: strings.TrimRight(config.PosSvcURL, "/"),
			AggSvcURL: strings.TrimRight(config.AggSvcURL, "/"),
		},
		client: client,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	g.logger.Debug("proxy", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.String("target", targetURL))

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error("build upstream request failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}
	otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(req.Header))

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("upstream unreachable", zap.String("target", targetURL), zap.Error(err))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warn("copy upstream response failed", zap.Error(err))
	}
}

// RouteHandler sends sales and stock-alert reads to the aggregation service
// and every other API call to the POS service.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/sales" || strings.HasPrefix(path, "/api/sales/"),
		path == "/api/stock-alerts":
		g.ProxyRequest(w, r, g.config.AggSvcURL)
	case strings.HasPrefix(path, "/api/orders"), strings.HasPrefix(path, "/api/tables"):
		g.ProxyRequest(w, r, g.config.PosSvcURL)
	default:
		g.logger.Debug("unmatched route", zap.String("path", path))
		http.Error(w, "API route not found", http.StatusNotFound)
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.NotFoundHandler = http.HandlerFunc(g.RouteHandler)
	return r
}
