package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	Orders service.OrderLedgerInterface
	Tables service.TableBoardInterface
	QR     service.QRGenerator
	Logger *zap.Logger
}

func NewHandler(orders service.OrderLedgerInterface, tables service.TableBoardInterface, qr service.QRGenerator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Orders: orders,
		Tables: tables,
		QR:     qr,
		Logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/orders", h.placeOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.moveOrder).Methods("PATCH")
	r.HandleFunc("/api/orders/{id}", h.cancelOrder).Methods("DELETE")
	r.HandleFunc("/api/orders/{id}/serve", h.serveOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/pay", h.payOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/complete", h.completeOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/api/tables", h.listTables).Methods("GET")
	r.HandleFunc("/api/tables/{name}/call-bill", h.callBill).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "pos-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Field     string            `json:"field,omitempty"`
	Shortages []domain.Shortage `json:"shortages,omitempty"`
	Missing   []int64           `json:"missing_ingredients,omitempty"`
}

// writeError maps the ledger's error taxonomy onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		shortage   *domain.InsufficientStockError
		missing    *domain.IngredientNotFoundError
		closed     *domain.StoreClosedError
	)
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &validation):
		status, resp.Code, resp.Field = http.StatusBadRequest, "validation_error", validation.Field
	case errors.As(err, &shortage):
		status, resp.Code, resp.Shortages = http.StatusConflict, "insufficient_stock", shortage.Shortages
	case errors.As(err, &missing):
		status, resp.Code, resp.Missing = http.StatusUnprocessableEntity, "ingredient_not_found", missing.IDs
	case errors.As(err, &closed):
		status, resp.Code = http.StatusForbidden, string(closed.Status)
	case errors.Is(err, domain.ErrOrderNotFound):
		status, resp.Code = http.StatusNotFound, "order_not_found"
	case errors.Is(err, domain.ErrAlreadyPaid):
		status, resp.Code = http.StatusConflict, "already_paid"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, resp.Code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrTableConflict):
		status, resp.Code = http.StatusConflict, "table_conflict"
	case errors.Is(err, domain.ErrStorageUnavailable):
		status, resp.Code = http.StatusServiceUnavailable, "storage_unavailable"
	default:
		resp.Code = "internal"
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func orderID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.Orders.PlaceOrCreate(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if result.Appended {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) serveOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status, err := h.Orders.Serve(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"order_id": id, "status": status})
}

func (h *Handler) payOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req := domain.PaymentRequest{Discount: decimal.Zero}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.OrderID = id
	if err := h.Orders.Pay(r.Context(), req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"order_id": id, "status": domain.OrderPaid})
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Orders.Complete(r.Context(), id, body.PaymentMethod); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"order_id": id, "status": domain.OrderCompleted})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Orders.Cancel(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"order_id": id, "status": domain.OrderCancelled})
}

func (h *Handler) moveOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body struct {
		TableName string `json:"table_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Orders.MoveTable(r.Context(), id, body.TableName); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"order_id": id, "table_name": body.TableName})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.Orders.Get(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := h.QR.Generate(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if tables == nil {
		tables = []domain.Table{}
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) callBill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.Orders.RequestBill(r.Context(), name); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"table_name": name, "bill_requested": true})
}
