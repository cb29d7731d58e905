package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/boba-shop/internal/core/domain"
	"github.com/rl1809/boba-shop/internal/port"
)

const (
	deletePrompt = "Are you sure you want to delete this product?"
	logoutPrompt = "Are you sure you want to logout?"
)

// session is the state owned by one login. Admin sessions use catalog and
// draft, customer sessions use cart and orders.
type session struct {
	mu        sync.Mutex
	token     string
	username  string
	role      domain.Role
	page      domain.Page
	createdAt time.Time
	expiresAt time.Time

	catalog *Catalog
	draft   domain.ProductForm

	cart   *Cart
	orders *OrderHistory

	pending map[string]domain.Confirmation
}

func (s *session) view() SessionView {
	return SessionView{
		Token:     s.token,
		Username:  s.username,
		Role:      s.role,
		Screen:    domain.HomeScreen(s.role),
		Page:      s.page,
		CreatedAt: s.createdAt,
	}
}

func (s *session) cartView() CartView {
	return CartView{
		Lines:     s.cart.Lines(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
	}
}

type SessionView struct {
	Token     string
	Username  string
	Role      domain.Role
	Screen    domain.Screen
	Page      domain.Page
	CreatedAt time.Time
}

type CartView struct {
	Lines     []domain.CartLine
	Total     decimal.Decimal
	ItemCount int
}

// Resolution reports what answering a confirmation did.
type Resolution struct {
	Kind    domain.ConfirmationKind
	Applied bool
	Screen  domain.Screen
}

type ShopService struct {
	auth       *AuthGate
	storefront *Storefront
	cache      port.CacheRepository
	ids        IDSource
	ttl        time.Duration
	orderQueue chan domain.ArchivedOrder

	mu        sync.RWMutex
	sessions  map[string]*session
	lastPrune time.Time
}

// NewShopService wires the state holders. A queueSize of zero disables the
// archive queue.
func NewShopService(auth *AuthGate, storefront *Storefront, cache port.CacheRepository, ttl time.Duration, queueSize int) *ShopService {
	s := &ShopService{
		auth:       auth,
		storefront: storefront,
		cache:      cache,
		ids:        NewClockIDs(),
		ttl:        ttl,
		sessions:   make(map[string]*session),
	}
	if queueSize > 0 {
		s.orderQueue = make(chan domain.ArchivedOrder, queueSize)
	}
	return s
}

func (s *ShopService) Login(ctx context.Context, role, username, password string) (SessionView, error) {
	r, err := s.auth.Login(role, username, password)
	if err != nil {
		return SessionView{}, err
	}

	token := uuid.NewString()
	if err := s.cache.PutSession(ctx, token, r, s.ttl); err != nil {
		return SessionView{}, fmt.Errorf("store session: %w", err)
	}

	now := time.Now()
	sess := &session{
		token:     token,
		username:  strings.TrimSpace(username),
		role:      r,
		page:      domain.PageProducts,
		createdAt: now,
		expiresAt: now.Add(s.ttl),
		pending:   make(map[string]domain.Confirmation),
	}
	if r == domain.RoleAdmin {
		sess.catalog = NewCatalog(s.ids)
	} else {
		sess.cart = NewCart()
		sess.orders = NewOrderHistory()
	}

	s.mu.Lock()
	if now.Sub(s.lastPrune) >= s.pruneEvery() {
		s.pruneLocked(now)
		s.lastPrune = now
	}
	s.sessions[token] = sess
	s.mu.Unlock()

	return sess.view(), nil
}

func (s *ShopService) Signup(ctx context.Context, username, password string) domain.Screen {
	return s.auth.Signup(username, password)
}

func (s *ShopService) Session(ctx context.Context, token string) (SessionView, error) {
	sess, err := s.lookup(ctx, token, "")
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *ShopService) Navigate(ctx context.Context, token string, page domain.Page) (SessionView, error) {
	sess, err := s.lookup(ctx, token, "")
	if err != nil {
		return SessionView{}, err
	}
	if !page.Allows(sess.role) {
		return SessionView{}, domain.ErrInvalidPage
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.page = page
	return sess.view(), nil
}

func (s *ShopService) RequestLogout(ctx context.Context, token string) (domain.Confirmation, error) {
	sess, err := s.lookup(ctx, token, "")
	if err != nil {
		return domain.Confirmation{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.addPending(domain.ConfirmLogout, 0, logoutPrompt), nil
}

// Resolve answers a pending confirmation. Only confirm=true applies it.
func (s *ShopService) Resolve(ctx context.Context, token, confirmationID string, confirm bool) (Resolution, error) {
	sess, err := s.lookup(ctx, token, "")
	if err != nil {
		return Resolution{}, err
	}

	sess.mu.Lock()
	c, ok := sess.pending[confirmationID]
	if !ok {
		sess.mu.Unlock()
		return Resolution{}, domain.ErrConfirmationNotFound
	}
	delete(sess.pending, confirmationID)

	res := Resolution{Kind: c.Kind, Screen: domain.HomeScreen(sess.role)}
	if !confirm {
		sess.mu.Unlock()
		return res, nil
	}

	switch c.Kind {
	case domain.ConfirmDeleteProduct:
		err = sess.catalog.DeleteProduct(c.ProductID)
		sess.mu.Unlock()
		if err != nil {
			return Resolution{}, err
		}
		res.Applied = true
		return res, nil
	case domain.ConfirmLogout:
		sess.mu.Unlock()
		if err := s.endSession(ctx, token); err != nil {
			return Resolution{}, err
		}
		res.Applied = true
		res.Screen = domain.ScreenLogin
		return res, nil
	default:
		sess.mu.Unlock()
		return Resolution{}, domain.ErrConfirmationNotFound
	}
}

func (s *ShopService) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.catalog.ListProducts(), nil
}

func (s *ShopService) Product(ctx context.Context, token string, id int64) (domain.Product, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return domain.Product{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.catalog.Product(id)
}

func (s *ShopService) AddProduct(ctx context.Context, token string, form domain.ProductForm) (domain.Product, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return domain.Product{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.catalog.AddProduct(form)
}

func (s *ShopService) UpdateProduct(ctx context.Context, token string, id int64, form domain.ProductForm) (domain.Product, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return domain.Product{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.catalog.UpdateProduct(id, form)
}

// RequestDeleteProduct starts the two-step delete. Nothing is removed until
// the returned confirmation is resolved with confirm=true.
func (s *ShopService) RequestDeleteProduct(ctx context.Context, token string, id int64) (domain.Confirmation, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return domain.Confirmation{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if _, err := sess.catalog.Product(id); err != nil {
		return domain.Confirmation{}, err
	}
	return sess.addPending(domain.ConfirmDeleteProduct, id, deletePrompt), nil
}

// EditDraft sets one field of the add-product form. Edits the numeric input
// filters reject leave the field unchanged and return accepted=false.
func (s *ShopService) EditDraft(ctx context.Context, token, field, value string) (domain.ProductForm, bool, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return domain.ProductForm{}, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := &sess.draft
	accepted := true
	switch field {
	case "image_url":
		d.ImageURL = value
	case "name":
		d.Name = value
	case "quantity":
		if accepted = domain.AcceptQuantityInput(value); accepted {
			d.Quantity = value
		}
	case "price":
		if accepted = domain.AcceptPriceInput(value); accepted {
			d.Price = value
		}
	case "expiry_date":
		d.ExpiryDate = value
	default:
		return sess.draft, false, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	return sess.draft, accepted, nil
}

func (s *ShopService) Draft(ctx context.Context, token string) (domain.ProductForm, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return domain.ProductForm{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.draft, nil
}

// SubmitDraft adds the drafted product and clears the form on success.
func (s *ShopService) SubmitDraft(ctx context.Context, token string) (domain.Product, error) {
	sess, err := s.lookup(ctx, token, domain.RoleAdmin)
	if err != nil {
		return domain.Product{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	p, err := sess.catalog.AddProduct(sess.draft)
	if err != nil {
		return domain.Product{}, err
	}
	sess.draft = domain.ProductForm{}
	return p, nil
}

func (s *ShopService) Items() []domain.CatalogItem {
	return s.storefront.Items()
}

func (s *ShopService) AddToCart(ctx context.Context, token string, itemID int64) (CartView, error) {
	sess, err := s.lookup(ctx, token, domain.RoleCustomer)
	if err != nil {
		return CartView{}, err
	}
	item, err := s.storefront.Item(itemID)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.cart.AddToCart(item)
	return sess.cartView(), nil
}

func (s *ShopService) UpdateQuantity(ctx context.Context, token string, itemID int64, delta int) (CartView, error) {
	sess, err := s.lookup(ctx, token, domain.RoleCustomer)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if _, _, err := sess.cart.UpdateQuantity(itemID, delta); err != nil {
		return CartView{}, err
	}
	return sess.cartView(), nil
}

func (s *ShopService) Cart(ctx context.Context, token string) (CartView, error) {
	sess, err := s.lookup(ctx, token, domain.RoleCustomer)
	if err != nil {
		return CartView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.cartView(), nil
}

// PlaceOrder turns the cart into an order and moves the customer to the
// orders page. placed is false when the cart was empty. A non-empty
// idempotencyKey already used by this session yields ErrDuplicateRequest;
// the key is claimed before the cart is checked, so a replay after the
// cart was emptied is still reported as a duplicate.
func (s *ShopService) PlaceOrder(ctx context.Context, token, idempotencyKey string) (order domain.Order, placed bool, err error) {
	sess, err := s.lookup(ctx, token, domain.RoleCustomer)
	if err != nil {
		return domain.Order{}, false, err
	}

	sess.mu.Lock()
	if idempotencyKey != "" {
		ok, err := s.cache.SetIdempotency(ctx, fmt.Sprintf("order:%s:%s", token, idempotencyKey))
		if err != nil {
			sess.mu.Unlock()
			return domain.Order{}, false, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			sess.mu.Unlock()
			return domain.Order{}, false, domain.ErrDuplicateRequest
		}
	}
	if sess.cart.Empty() {
		sess.mu.Unlock()
		return domain.Order{}, false, nil
	}
	order, _ = sess.orders.PlaceOrder(sess.cart)
	sess.page = domain.PageOrders
	username := sess.username
	sess.mu.Unlock()

	if s.orderQueue != nil {
		select {
		case s.orderQueue <- domain.ArchivedOrder{Order: order.Clone(), Username: username}:
		case <-ctx.Done():
			// the order is placed in the session either way
		}
	}
	return order, true, nil
}

func (s *ShopService) Orders(ctx context.Context, token string) ([]domain.Order, error) {
	sess, err := s.lookup(ctx, token, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.orders.Orders(), nil
}

func (s *ShopService) GetOrderQueue() <-chan domain.ArchivedOrder {
	return s.orderQueue
}

func (s *ShopService) Close() {
	if s.orderQueue != nil {
		close(s.orderQueue)
	}
}

// lookup resolves a live session. An empty role accepts either role.
func (s *ShopService) lookup(ctx context.Context, token string, role domain.Role) (*session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}
	cachedRole, ok, err := s.cache.SessionRole(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	s.mu.RLock()
	sess, found := s.sessions[token]
	s.mu.RUnlock()

	if !ok || (found && !time.Now().Before(sess.expiresAt)) {
		if found {
			s.mu.Lock()
			delete(s.sessions, token)
			s.mu.Unlock()
		}
		return nil, domain.ErrSessionNotFound
	}
	if !found || cachedRole != sess.role {
		return nil, domain.ErrSessionNotFound
	}
	if role != "" && sess.role != role {
		return nil, domain.ErrForbidden
	}
	return sess, nil
}

// Sweep drops sessions whose TTL has passed or whose token the cache no
// longer knows, and returns how many were dropped. Cache errors keep the
// session.
func (s *ShopService) Sweep(ctx context.Context) int {
	now := time.Now()
	s.mu.Lock()
	dropped := s.pruneLocked(now)
	s.lastPrune = now
	tokens := make([]string, 0, len(s.sessions))
	for token := range s.sessions {
		tokens = append(tokens, token)
	}
	s.mu.Unlock()

	for _, token := range tokens {
		_, ok, err := s.cache.SessionRole(ctx, token)
		if err != nil || ok {
			continue
		}
		s.mu.Lock()
		if _, found := s.sessions[token]; found {
			delete(s.sessions, token)
			dropped++
		}
		s.mu.Unlock()
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *ShopService) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(dropped int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Sweep(ctx)
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// pruneLocked removes sessions past their expiry. Caller holds s.mu.
func (s *ShopService) pruneLocked(now time.Time) int {
	n := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// pruneEvery bounds how often Login scans for expired sessions.
func (s *ShopService) pruneEvery() time.Duration {
	if s.ttl < time.Minute {
		return s.ttl
	}
	return time.Minute
}

func (s *ShopService) endSession(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	if err := s.cache.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *session) addPending(kind domain.ConfirmationKind, productID int64, prompt string) domain.Confirmation {
	c := domain.Confirmation{
		ID:        uuid.NewString(),
		Kind:      kind,
		ProductID: productID,
		Prompt:    prompt,
		CreatedAt: time.Now(),
	}
	s.pending[c.ID] = c
	return c
}
