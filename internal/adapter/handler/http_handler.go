package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rl1809/boba-shop/internal/core/domain"
	"github.com/rl1809/boba-shop/internal/core/service"
	"github.com/rl1809/boba-shop/internal/logx"
)

const (
	sessionHeader     = "X-Session-Token"
	idempotencyHeader = "Idempotency-Key"
)

type HTTPHandler struct {
	shop *service.ShopService
}

func NewHTTPHandler(shop *service.ShopService) *HTTPHandler {
	return &HTTPHandler{shop: shop}
}

// Routes registers every endpoint on a fresh mux wrapped with request logging.
func (h *HTTPHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/signup", h.Signup)
	mux.HandleFunc("GET /api/session", h.Session)
	mux.HandleFunc("PUT /api/session/page", h.Navigate)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("POST /api/confirmations", h.Resolve)

	mux.HandleFunc("GET /api/admin/products", h.ListProducts)
	mux.HandleFunc("POST /api/admin/products", h.AddProduct)
	mux.HandleFunc("GET /api/admin/products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /api/admin/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /api/admin/products/{id}", h.DeleteProduct)
	mux.HandleFunc("GET /api/admin/draft", h.GetDraft)
	mux.HandleFunc("PATCH /api/admin/draft", h.EditDraft)
	mux.HandleFunc("POST /api/admin/draft/submit", h.SubmitDraft)

	mux.HandleFunc("GET /api/shop/items", h.ListItems)
	mux.HandleFunc("GET /api/shop/cart", h.GetCart)
	mux.HandleFunc("POST /api/shop/cart", h.AddToCart)
	mux.HandleFunc("PATCH /api/shop/cart", h.UpdateQuantity)
	mux.HandleFunc("GET /api/shop/orders", h.ListOrders)
	mux.HandleFunc("POST /api/shop/orders", h.PlaceOrder)

	return logRequests(mux)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.shop.Login(r.Context(), req.Role, req.Username, req.Password)
	if err != nil {
		logx.Info().Str("role", req.Role).Err(err).Msg("login rejected")
		writeError(w, err)
		return
	}
	logx.Info().Str("role", string(view.Role)).Str("username", view.Username).Msg("login")
	writeOK(w, fmt.Sprintf("Logged in as %s!", view.Role), toSessionJSON(view))
}

func (h *HTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decode(w, r, &req) {
		return
	}
	next := h.shop.Signup(r.Context(), req.Username, req.Password)
	writeOK(w, "Account created successfully!", map[string]string{"screen": string(next)})
}

func (h *HTTPHandler) Session(w http.ResponseWriter, r *http.Request) {
	view, err := h.shop.Session(r.Context(), token(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", toSessionJSON(view))
}

func (h *HTTPHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !decode(w, r, &req) {
		return
	}
	view, err := h.shop.Navigate(r.Context(), token(r), domain.Page(req.Page))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", toSessionJSON(view))
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	c, err := h.shop.RequestLogout(r.Context(), token(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, Response{Success: true, Message: c.Prompt, Data: toConfirmationJSON(c)})
}

func (h *HTTPHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.shop.Resolve(r.Context(), token(r), req.ConfirmationID, req.Confirm)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Applied {
		logx.Info().Str("kind", string(res.Kind)).Msg("confirmation applied")
	}
	writeOK(w, "", toResolutionJSON(res))
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.shop.ListProducts(r.Context(), token(r))
	if err != nil {
		writeError(w, err)
		return
	}
	msg := ""
	if len(products) == 0 {
		msg = "No products yet"
	}
	writeOK(w, msg, toProductListJSON(products))
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductFormJSON
	if !decode(w, r, &req) {
		return
	}
	p, err := h.shop.AddProduct(r.Context(), token(r), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "Product added!", Data: toProductJSON(p)})
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	p, err := h.shop.Product(r.Context(), token(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", toProductJSON(p))
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req ProductFormJSON
	if !decode(w, r, &req) {
		return
	}
	p, err := h.shop.UpdateProduct(r.Context(), token(r), id, req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "Product updated!", toProductJSON(p))
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	c, err := h.shop.RequestDeleteProduct(r.Context(), token(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, Response{Success: true, Message: c.Prompt, Data: toConfirmationJSON(c)})
}

func (h *HTTPHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.shop.Draft(r.Context(), token(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", DraftJSON{Accepted: true, Draft: toFormJSON(d)})
}

func (h *HTTPHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftEditRequest
	if !decode(w, r, &req) {
		return
	}
	d, accepted, err := h.shop.EditDraft(r.Context(), token(r), req.Field, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", DraftJSON{Accepted: accepted, Draft: toFormJSON(d)})
}

func (h *HTTPHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	p, err := h.shop.SubmitDraft(r.Context(), token(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "Product added!", Data: toProductJSON(p)})
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", toItemsJSON(h.shop.Items()))
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.shop.Cart(r.Context(), token(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", toCartJSON(c))
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req CartAddRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.shop.AddToCart(r.Context(), token(r), req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", toCartJSON(c))
}

func (h *HTTPHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req CartUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.shop.UpdateQuantity(r.Context(), token(r), req.ItemID, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", toCartJSON(c))
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.shop.Orders(r.Context(), token(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "", toOrdersJSON(orders))
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	order, placed, err := h.shop.PlaceOrder(r.Context(), token(r), r.Header.Get(idempotencyHeader))
	if err != nil {
		writeError(w, err)
		return
	}
	if !placed {
		writeOK(w, "cart is empty", PlaceOrderJSON{Placed: false})
		return
	}
	o := toOrderJSON(order)
	logx.Info().Str("order_id", order.ID).Str("total", o.Total).Msg("order placed")
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "order placed successfully", Data: PlaceOrderJSON{Placed: true, Order: &o}})
}

func token(r *http.Request) string {
	if t := r.Header.Get(sessionHeader); t != "" {
		return t
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Code: "invalid_id", Message: "invalid product id"})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Code: "invalid_body", Message: "invalid request body"})
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	e := classify(err)
	if e.HTTPStatus == http.StatusInternalServerError {
		logx.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, e.HTTPStatus, Response{Success: false, Code: e.Code, Message: e.Message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logx.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}
