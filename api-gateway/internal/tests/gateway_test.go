package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"overcooked-pos/api-gateway/internal/gateway"
	"overcooked-pos/api-gateway/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func upstreamResponse(code int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, zap.NewNop())

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantTarget string
	}{
		{name: "place order", method: http.MethodPost, path: "/api/orders", body: `{"order_type":"takeaway"}`, wantTarget: "http://pos-svc/api/orders"},
		{name: "pay order", method: http.MethodPost, path: "/api/orders/7/pay", body: `{"payment_method":"cash"}`, wantTarget: "http://pos-svc/api/orders/7/pay"},
		{name: "qr code", method: http.MethodGet, path: "/api/orders/7/qrcode", wantTarget: "http://pos-svc/api/orders/7/qrcode"},
		{name: "table board", method: http.MethodGet, path: "/api/tables", wantTarget: "http://pos-svc/api/tables"},
		{name: "call bill", method: http.MethodPost, path: "/api/tables/T-01/call-bill", wantTarget: "http://pos-svc/api/tables/T-01/call-bill"},
		{name: "sales with query", method: http.MethodGet, path: "/api/sales/today?limit=5", wantTarget: "http://agg-svc/api/sales/today?limit=5"},
		{name: "stock alerts", method: http.MethodGet, path: "/api/stock-alerts", wantTarget: "http://agg-svc/api/stock-alerts"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockClient := mocks.NewHTTPClient(t)
			gw := gateway.NewGateway(gateway.Config{
				PosSvcURL: "http://pos-svc/",
				AggSvcURL: "http://agg-svc",
			}, mockClient, zap.NewNop())

			mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				if req.URL.String() != testCase.wantTarget || req.Method != testCase.method {
					return false
				}
				if testCase.body == "" {
					return true
				}
				got, err := io.ReadAll(req.Body)
				return err == nil && string(got) == testCase.body
			})).Return(upstreamResponse(http.StatusOK, `{"ok":true}`), nil).Once()

			req := httptest.NewRequest(testCase.method, testCase.path, strings.NewReader(testCase.body))
			rr := httptest.NewRecorder()
			gw.SetupRoutes().ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
		})
	}
}

func TestGateway_PassesUpstreamStatus(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{PosSvcURL: "http://pos-svc"}, mockClient, zap.NewNop())

	mockClient.On("Do", mock.Anything).
		Return(upstreamResponse(http.StatusConflict, `{"code":"insufficient_stock"}`), nil).Once()

	rr := httptest.NewRecorder()
	gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "insufficient_stock")
}

func TestGateway_UnknownRoutes(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, zap.NewNop())

	for _, path := range []string{"/api/unknown", "/", "/static/app.js"} {
		rr := httptest.NewRecorder()
		gw.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestGateway_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{PosSvcURL: "http://invalid"}, mockClient, zap.NewNop())

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	rr := httptest.NewRecorder()
	gw.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/api/tables", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
