package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/boba-shop/internal/core/domain"
	"github.com/rl1809/boba-shop/internal/core/service"
	"github.com/rl1809/boba-shop/internal/logx"
)

const (
	ShopServiceName = "bobashop.v1.Shop"
	sessionMetadata = "x-session-token"
)

type Empty struct{}

type SignupJSON struct {
	Screen string `json:"screen"`
}

type UpdateProductRequest struct {
	ID   int64           `json:"id"`
	Form ProductFormJSON `json:"form"`
}

type ProductIDRequest struct {
	ID int64 `json:"id"`
}

type PlaceOrderRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type ItemListJSON struct {
	Items []ItemJSON `json:"items"`
}

type OrderListJSON struct {
	Orders []OrderJSON `json:"orders"`
}

// ShopServer is the RPC surface of the shop. Every call except Login,
// Signup and ListItems needs the session token in x-session-token metadata.
type ShopServer interface {
	Login(context.Context, *LoginRequest) (*SessionJSON, error)
	Signup(context.Context, *SignupRequest) (*SignupJSON, error)
	GetSession(context.Context, *Empty) (*SessionJSON, error)
	Navigate(context.Context, *NavigateRequest) (*SessionJSON, error)
	Logout(context.Context, *Empty) (*ConfirmationJSON, error)
	Resolve(context.Context, *ResolveRequest) (*ResolutionJSON, error)
	ListProducts(context.Context, *Empty) (*ProductListJSON, error)
	GetProduct(context.Context, *ProductIDRequest) (*ProductJSON, error)
	AddProduct(context.Context, *ProductFormJSON) (*ProductJSON, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*ProductJSON, error)
	DeleteProduct(context.Context, *ProductIDRequest) (*ConfirmationJSON, error)
	GetDraft(context.Context, *Empty) (*DraftJSON, error)
	EditDraft(context.Context, *DraftEditRequest) (*DraftJSON, error)
	SubmitDraft(context.Context, *Empty) (*ProductJSON, error)
	ListItems(context.Context, *Empty) (*ItemListJSON, error)
	GetCart(context.Context, *Empty) (*CartJSON, error)
	AddToCart(context.Context, *CartAddRequest) (*CartJSON, error)
	UpdateQuantity(context.Context, *CartUpdateRequest) (*CartJSON, error)
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderJSON, error)
	ListOrders(context.Context, *Empty) (*OrderListJSON, error)
}

var shopServiceDesc = grpc.ServiceDesc{
	ServiceName: ShopServiceName,
	HandlerType: (*ShopServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", ShopServer.Login),
		unary("Signup", ShopServer.Signup),
		unary("GetSession", ShopServer.GetSession),
		unary("Navigate", ShopServer.Navigate),
		unary("Logout", ShopServer.Logout),
		unary("Resolve", ShopServer.Resolve),
		unary("ListProducts", ShopServer.ListProducts),
		unary("GetProduct", ShopServer.GetProduct),
		unary("AddProduct", ShopServer.AddProduct),
		unary("UpdateProduct", ShopServer.UpdateProduct),
		unary("DeleteProduct", ShopServer.DeleteProduct),
		unary("GetDraft", ShopServer.GetDraft),
		unary("EditDraft", ShopServer.EditDraft),
		unary("SubmitDraft", ShopServer.SubmitDraft),
		unary("ListItems", ShopServer.ListItems),
		unary("GetCart", ShopServer.GetCart),
		unary("AddToCart", ShopServer.AddToCart),
		unary("UpdateQuantity", ShopServer.UpdateQuantity),
		unary("PlaceOrder", ShopServer.PlaceOrder),
		unary("ListOrders", ShopServer.ListOrders),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bobashop/v1/shop",
}

func RegisterShopServer(s grpc.ServiceRegistrar, srv ShopServer) {
	s.RegisterService(&shopServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(ShopServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ShopServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ShopServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ShopServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type GRPCHandler struct {
	shop *service.ShopService
}

var _ ShopServer = (*GRPCHandler)(nil)

func NewGRPCHandler(shop *service.ShopService) *GRPCHandler {
	return &GRPCHandler{shop: shop}
}

func (h *GRPCHandler) Login(ctx context.Context, req *LoginRequest) (*SessionJSON, error) {
	view, err := h.shop.Login(ctx, req.Role, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	logx.Info().Str("role", string(view.Role)).Str("username", view.Username).Msg("grpc login")
	out := toSessionJSON(view)
	return &out, nil
}

func (h *GRPCHandler) Signup(ctx context.Context, req *SignupRequest) (*SignupJSON, error) {
	return &SignupJSON{Screen: string(h.shop.Signup(ctx, req.Username, req.Password))}, nil
}

func (h *GRPCHandler) GetSession(ctx context.Context, _ *Empty) (*SessionJSON, error) {
	view, err := h.shop.Session(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	out := toSessionJSON(view)
	return &out, nil
}

func (h *GRPCHandler) Navigate(ctx context.Context, req *NavigateRequest) (*SessionJSON, error) {
	view, err := h.shop.Navigate(ctx, tokenFrom(ctx), domain.Page(req.Page))
	if err != nil {
		return nil, toStatus(err)
	}
	out := toSessionJSON(view)
	return &out, nil
}

func (h *GRPCHandler) Logout(ctx context.Context, _ *Empty) (*ConfirmationJSON, error) {
	c, err := h.shop.RequestLogout(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	out := toConfirmationJSON(c)
	return &out, nil
}

func (h *GRPCHandler) Resolve(ctx context.Context, req *ResolveRequest) (*ResolutionJSON, error) {
	res, err := h.shop.Resolve(ctx, tokenFrom(ctx), req.ConfirmationID, req.Confirm)
	if err != nil {
		return nil, toStatus(err)
	}
	out := toResolutionJSON(res)
	return &out, nil
}

func (h *GRPCHandler) ListProducts(ctx context.Context, _ *Empty) (*ProductListJSON, error) {
	products, err := h.shop.ListProducts(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	out := toProductListJSON(products)
	return &out, nil
}

func (h *GRPCHandler) GetProduct(ctx context.Context, req *ProductIDRequest) (*ProductJSON, error) {
	p, err := h.shop.Product(ctx, tokenFrom(ctx), req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := toProductJSON(p)
	return &out, nil
}

func (h *GRPCHandler) AddProduct(ctx context.Context, req *ProductFormJSON) (*ProductJSON, error) {
	p, err := h.shop.AddProduct(ctx, tokenFrom(ctx), req.toDomain())
	if err != nil {
		return nil, toStatus(err)
	}
	out := toProductJSON(p)
	return &out, nil
}

func (h *GRPCHandler) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*ProductJSON, error) {
	p, err := h.shop.UpdateProduct(ctx, tokenFrom(ctx), req.ID, req.Form.toDomain())
	if err != nil {
		return nil, toStatus(err)
	}
	out := toProductJSON(p)
	return &out, nil
}

func (h *GRPCHandler) DeleteProduct(ctx context.Context, req *ProductIDRequest) (*ConfirmationJSON, error) {
	c, err := h.shop.RequestDeleteProduct(ctx, tokenFrom(ctx), req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := toConfirmationJSON(c)
	return &out, nil
}

func (h *GRPCHandler) GetDraft(ctx context.Context, _ *Empty) (*DraftJSON, error) {
	d, err := h.shop.Draft(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return &DraftJSON{Accepted: true, Draft: toFormJSON(d)}, nil
}

// EditDraft reports rejected keystrokes through Accepted, not an error.
func (h *GRPCHandler) EditDraft(ctx context.Context, req *DraftEditRequest) (*DraftJSON, error) {
	d, accepted, err := h.shop.EditDraft(ctx, tokenFrom(ctx), req.Field, req.Value)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DraftJSON{Accepted: accepted, Draft: toFormJSON(d)}, nil
}

func (h *GRPCHandler) SubmitDraft(ctx context.Context, _ *Empty) (*ProductJSON, error) {
	p, err := h.shop.SubmitDraft(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	logx.Info().Int64("product_id", p.ID).Msg("grpc draft submitted")
	out := toProductJSON(p)
	return &out, nil
}

func (h *GRPCHandler) ListItems(ctx context.Context, _ *Empty) (*ItemListJSON, error) {
	return &ItemListJSON{Items: toItemsJSON(h.shop.Items())}, nil
}

func (h *GRPCHandler) GetCart(ctx context.Context, _ *Empty) (*CartJSON, error) {
	c, err := h.shop.Cart(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	out := toCartJSON(c)
	return &out, nil
}

func (h *GRPCHandler) AddToCart(ctx context.Context, req *CartAddRequest) (*CartJSON, error) {
	c, err := h.shop.AddToCart(ctx, tokenFrom(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := toCartJSON(c)
	return &out, nil
}

func (h *GRPCHandler) UpdateQuantity(ctx context.Context, req *CartUpdateRequest) (*CartJSON, error) {
	c, err := h.shop.UpdateQuantity(ctx, tokenFrom(ctx), req.ItemID, req.Delta)
	if err != nil {
		return nil, toStatus(err)
	}
	out := toCartJSON(c)
	return &out, nil
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderJSON, error) {
	order, placed, err := h.shop.PlaceOrder(ctx, tokenFrom(ctx), req.IdempotencyKey)
	if err != nil {
		return nil, toStatus(err)
	}
	if !placed {
		return &PlaceOrderJSON{Placed: false}, nil
	}
	o := toOrderJSON(order)
	logx.Info().Str("order_id", order.ID).Str("total", o.Total).Msg("grpc order placed")
	return &PlaceOrderJSON{Placed: true, Order: &o}, nil
}

func (h *GRPCHandler) ListOrders(ctx context.Context, _ *Empty) (*OrderListJSON, error) {
	orders, err := h.shop.Orders(ctx, tokenFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return &OrderListJSON{Orders: toOrdersJSON(orders)}, nil
}

func tokenFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(sessionMetadata); len(v) > 0 {
		return v[0]
	}
	return ""
}

func toStatus(err error) error {
	e := classify(err)
	if e.HTTPStatus >= 500 {
		logx.Error().Err(err).Msg("grpc call failed")
	}
	return status.Error(e.GRPCCode, e.Message)
}
