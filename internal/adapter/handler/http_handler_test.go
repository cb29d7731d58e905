package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/boba-shop/internal/adapter/storage"
	"github.com/rl1809/boba-shop/internal/core/service"
)

func newTestShop() *service.ShopService {
	return service.NewShopService(
		service.NewAuthGate(service.DefaultCredentials()),
		service.DefaultStorefront(),
		storage.NewMemoryAdapter(),
		time.Hour,
		0,
	)
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newAPIClient(t *testing.T) *apiClient {
	return &apiClient{t: t, handler: NewHTTPHandler(newTestShop()).Routes()}
}

// do sends body as JSON and decodes the envelope. data, when non-nil,
// receives the envelope's data field.
func (c *apiClient) do(method, path string, body any, headers map[string]string, data any) (int, Response) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.token != "" {
		req.Header.Set(sessionHeader, c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var raw struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(c.t, json.Unmarshal(raw.Data, data))
	}
	return rec.Code, raw.Response
}

func (c *apiClient) login(role, username, password string) SessionJSON {
	c.t.Helper()
	var s SessionJSON
	code, resp := c.do(http.MethodPost, "/api/login", LoginRequest{Role: role, Username: username, Password: password}, nil, &s)
	require.Equal(c.t, http.StatusOK, code, resp.Message)
	c.token = s.Token
	return s
}

func TestHealthCheck(t *testing.T) {
	h := NewHTTPHandler(newTestShop()).Routes()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	t.Run("admin lands on admin screen", func(t *testing.T) {
		c := newAPIClient(t)
		s := c.login("admin", "admin", "admin")
		assert.Equal(t, "admin", s.Screen)
		assert.Equal(t, "products", s.Page)
		assert.NotEmpty(t, s.Token)
	})

	t.Run("bad password", func(t *testing.T) {
		c := newAPIClient(t)
		code, resp := c.do(http.MethodPost, "/api/login", LoginRequest{Role: "customer", Username: "customer", Password: "nope"}, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "invalid_credentials", resp.Code)
		assert.Equal(t, "Invalid username or password", resp.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newAPIClient(t)
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		c.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSignupReturnsToLogin(t *testing.T) {
	c := newAPIClient(t)
	var out map[string]string
	code, resp := c.do(http.MethodPost, "/api/signup", SignupRequest{Username: "new", Password: "pw"}, nil, &out)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Account created successfully!", resp.Message)
	assert.Equal(t, "login", out["screen"])
}

func TestSessionRequiresToken(t *testing.T) {
	c := newAPIClient(t)
	code, resp := c.do(http.MethodGet, "/api/session", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "session_not_found", resp.Code)
}

func TestBearerToken(t *testing.T) {
	c := newAPIClient(t)
	s := c.login("customer", "customer", "1234")
	c.token = ""

	code, _ := c.do(http.MethodGet, "/api/session", nil, map[string]string{"Authorization": "Bearer " + s.Token}, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminProductLifecycle(t *testing.T) {
	c := newAPIClient(t)
	c.login("admin", "admin", "admin")

	var list ProductListJSON
	_, resp := c.do(http.MethodGet, "/api/admin/products", nil, nil, &list)
	assert.True(t, list.Empty)
	assert.Equal(t, "No products yet", resp.Message)

	var created ProductJSON
	code, resp := c.do(http.MethodPost, "/api/admin/products", ProductFormJSON{
		ImageURL: "https://example.com/t.png", Name: " Taro ", Quantity: "5", Price: "45.5", ExpiryDate: "2026-12-31",
	}, nil, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Product added!", resp.Message)
	assert.Equal(t, "Taro", created.Name)
	assert.Equal(t, "45.50", created.Price)
	assert.Equal(t, "45.5", created.Form.Price)
	assert.Equal(t, "5", created.Form.Quantity)

	var updated ProductJSON
	code, _ = c.do(http.MethodPut, "/api/admin/products/"+itoa(created.ID), ProductFormJSON{
		ImageURL: "https://example.com/t.png", Name: "Taro XL", Quantity: "7", Price: "50", ExpiryDate: "2027-01-01",
	}, nil, &updated)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 7, updated.Quantity)

	var confirm ConfirmationJSON
	code, resp = c.do(http.MethodDelete, "/api/admin/products/"+itoa(created.ID), nil, nil, &confirm)
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "Are you sure you want to delete this product?", resp.Message)

	var res ResolutionJSON
	code, _ = c.do(http.MethodPost, "/api/confirmations", ResolveRequest{ConfirmationID: confirm.ID, Confirm: true}, nil, &res)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Applied)

	code, resp = c.do(http.MethodGet, "/api/admin/products/"+itoa(created.ID), nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", resp.Code)
}

func TestAddProductValidation(t *testing.T) {
	c := newAPIClient(t)
	c.login("admin", "admin", "admin")

	code, resp := c.do(http.MethodPost, "/api/admin/products", ProductFormJSON{
		ImageURL: "https://example.com/t.png", Quantity: "5", Price: "1", ExpiryDate: "2026-12-31",
	}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing_name", resp.Code)
	assert.Equal(t, "Please enter product name", resp.Message)
}

func TestInvalidProductID(t *testing.T) {
	c := newAPIClient(t)
	c.login("admin", "admin", "admin")

	code, resp := c.do(http.MethodGet, "/api/admin/products/abc", nil, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_id", resp.Code)
}

func TestDraftEditing(t *testing.T) {
	c := newAPIClient(t)
	c.login("admin", "admin", "admin")

	var d DraftJSON
	c.do(http.MethodPatch, "/api/admin/draft", DraftEditRequest{Field: "quantity", Value: "12"}, nil, &d)
	assert.True(t, d.Accepted)
	assert.Equal(t, "12", d.Draft.Quantity)

	c.do(http.MethodPatch, "/api/admin/draft", DraftEditRequest{Field: "quantity", Value: "12a"}, nil, &d)
	assert.False(t, d.Accepted)
	assert.Equal(t, "12", d.Draft.Quantity)

	code, resp := c.do(http.MethodPatch, "/api/admin/draft", DraftEditRequest{Field: "colour", Value: "red"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unknown_field", resp.Code)

	code, resp = c.do(http.MethodPost, "/api/admin/draft/submit", nil, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing_image", resp.Code)
}

func TestCustomerCannotReachAdmin(t *testing.T) {
	c := newAPIClient(t)
	c.login("customer", "customer", "1234")

	code, resp := c.do(http.MethodGet, "/api/admin/products", nil, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", resp.Code)
}

func TestCheckoutFlow(t *testing.T) {
	c := newAPIClient(t)
	c.login("customer", "customer", "1234")

	var items []ItemJSON
	c.do(http.MethodGet, "/api/shop/items", nil, nil, &items)
	require.Len(t, items, 3)

	var cart CartJSON
	c.do(http.MethodPost, "/api/shop/cart", CartAddRequest{ItemID: 1}, nil, &cart)
	c.do(http.MethodPost, "/api/shop/cart", CartAddRequest{ItemID: 1}, nil, &cart)
	c.do(http.MethodPost, "/api/shop/cart", CartAddRequest{ItemID: 3}, nil, &cart)
	assert.Equal(t, "340.00", cart.Total)
	assert.Equal(t, 3, cart.ItemCount)

	c.do(http.MethodPatch, "/api/shop/cart", CartUpdateRequest{ItemID: 3, Delta: -1}, nil, &cart)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "240.00", cart.Total)

	code, resp := c.do(http.MethodPatch, "/api/shop/cart", CartUpdateRequest{ItemID: 2, Delta: 1}, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", resp.Code)

	var placed PlaceOrderJSON
	code, resp = c.do(http.MethodPost, "/api/shop/orders", nil, map[string]string{idempotencyHeader: "k1"}, &placed)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "order placed successfully", resp.Message)
	require.NotNil(t, placed.Order)
	assert.Equal(t, "240.00", placed.Order.Total)

	var session SessionJSON
	c.do(http.MethodGet, "/api/session", nil, nil, &session)
	assert.Equal(t, "orders", session.Page)

	c.do(http.MethodGet, "/api/shop/cart", nil, nil, &cart)
	assert.Empty(t, cart.Lines)

	var orders []OrderJSON
	c.do(http.MethodGet, "/api/shop/orders", nil, nil, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.Order.ID, orders[0].ID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	c := newAPIClient(t)
	c.login("customer", "customer", "1234")

	var placed PlaceOrderJSON
	code, resp := c.do(http.MethodPost, "/api/shop/orders", nil, nil, &placed)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cart is empty", resp.Message)
	assert.False(t, placed.Placed)
}

func TestPlaceOrderDuplicateKey(t *testing.T) {
	c := newAPIClient(t)
	c.login("customer", "customer", "1234")
	headers := map[string]string{idempotencyHeader: "same"}

	c.do(http.MethodPost, "/api/shop/cart", CartAddRequest{ItemID: 2}, nil, nil)
	code, _ := c.do(http.MethodPost, "/api/shop/orders", nil, headers, nil)
	require.Equal(t, http.StatusCreated, code)

	c.do(http.MethodPost, "/api/shop/cart", CartAddRequest{ItemID: 2}, nil, nil)
	code, resp := c.do(http.MethodPost, "/api/shop/orders", nil, headers, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "duplicate_request", resp.Code)
}

func TestLogoutConfirmation(t *testing.T) {
	c := newAPIClient(t)
	c.login("customer", "customer", "1234")

	var confirm ConfirmationJSON
	code, resp := c.do(http.MethodPost, "/api/logout", nil, nil, &confirm)
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "Are you sure you want to logout?", resp.Message)

	var res ResolutionJSON
	c.do(http.MethodPost, "/api/confirmations", ResolveRequest{ConfirmationID: confirm.ID, Confirm: false}, nil, &res)
	assert.False(t, res.Applied)
	assert.Equal(t, "customer", res.Screen)

	c.do(http.MethodPost, "/api/logout", nil, nil, &confirm)
	c.do(http.MethodPost, "/api/confirmations", ResolveRequest{ConfirmationID: confirm.ID, Confirm: true}, nil, &res)
	assert.True(t, res.Applied)
	assert.Equal(t, "login", res.Screen)

	code, _ = c.do(http.MethodGet, "/api/session", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestNavigateInvalidPage(t *testing.T) {
	c := newAPIClient(t)
	c.login("admin", "admin", "admin")

	code, resp := c.do(http.MethodPut, "/api/session/page", NavigateRequest{Page: "cart"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_page", resp.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
