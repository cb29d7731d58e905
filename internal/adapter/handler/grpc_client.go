package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// ShopClient calls the shop service over an existing connection using the
// JSON codec.
type ShopClient struct {
	conn grpc.ClientConnInterface
}

func NewShopClient(conn grpc.ClientConnInterface) *ShopClient {
	return &ShopClient{conn: conn}
}

// Call invokes method on the shop service. An empty token sends no session
// metadata.
func (c *ShopClient) Call(ctx context.Context, method, token string, in, out any) error {
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, sessionMetadata, token)
	}
	return c.conn.Invoke(ctx, "/"+ShopServiceName+"/"+method, in, out, grpc.CallContentSubtype(CodecName))
}

func (c *ShopClient) Login(ctx context.Context, role, username, password string) (*SessionJSON, error) {
	out := new(SessionJSON)
	err := c.Call(ctx, "Login", "", &LoginRequest{Role: role, Username: username, Password: password}, out)
	return out, err
}

func (c *ShopClient) ListItems(ctx context.Context) (*ItemListJSON, error) {
	out := new(ItemListJSON)
	err := c.Call(ctx, "ListItems", "", &Empty{}, out)
	return out, err
}

func (c *ShopClient) AddToCart(ctx context.Context, token string, itemID int64) (*CartJSON, error) {
	out := new(CartJSON)
	err := c.Call(ctx, "AddToCart", token, &CartAddRequest{ItemID: itemID}, out)
	return out, err
}

func (c *ShopClient) UpdateQuantity(ctx context.Context, token string, itemID int64, delta int) (*CartJSON, error) {
	out := new(CartJSON)
	err := c.Call(ctx, "UpdateQuantity", token, &CartUpdateRequest{ItemID: itemID, Delta: delta}, out)
	return out, err
}

func (c *ShopClient) PlaceOrder(ctx context.Context, token, idempotencyKey string) (*PlaceOrderJSON, error) {
	out := new(PlaceOrderJSON)
	err := c.Call(ctx, "PlaceOrder", token, &PlaceOrderRequest{IdempotencyKey: idempotencyKey}, out)
	return out, err
}

func (c *ShopClient) ListOrders(ctx context.Context, token string) (*OrderListJSON, error) {
	out := new(OrderListJSON)
	err := c.Call(ctx, "ListOrders", token, &Empty{}, out)
	return out, err
}

func (c *ShopClient) AddProduct(ctx context.Context, token string, form ProductFormJSON) (*ProductJSON, error) {
	out := new(ProductJSON)
	err := c.Call(ctx, "AddProduct", token, &form, out)
	return out, err
}

func (c *ShopClient) GetProduct(ctx context.Context, token string, id int64) (*ProductJSON, error) {
	out := new(ProductJSON)
	err := c.Call(ctx, "GetProduct", token, &ProductIDRequest{ID: id}, out)
	return out, err
}

func (c *ShopClient) GetDraft(ctx context.Context, token string) (*DraftJSON, error) {
	out := new(DraftJSON)
	err := c.Call(ctx, "GetDraft", token, &Empty{}, out)
	return out, err
}

func (c *ShopClient) EditDraft(ctx context.Context, token, field, value string) (*DraftJSON, error) {
	out := new(DraftJSON)
	err := c.Call(ctx, "EditDraft", token, &DraftEditRequest{Field: field, Value: value}, out)
	return out, err
}

func (c *ShopClient) SubmitDraft(ctx context.Context, token string) (*ProductJSON, error) {
	out := new(ProductJSON)
	err := c.Call(ctx, "SubmitDraft", token, &Empty{}, out)
	return out, err
}

func (c *ShopClient) ListProducts(ctx context.Context, token string) (*ProductListJSON, error) {
	out := new(ProductListJSON)
	err := c.Call(ctx, "ListProducts", token, &Empty{}, out)
	return out, err
}

func (c *ShopClient) DeleteProduct(ctx context.Context, token string, id int64) (*ConfirmationJSON, error) {
	out := new(ConfirmationJSON)
	err := c.Call(ctx, "DeleteProduct", token, &ProductIDRequest{ID: id}, out)
	return out, err
}

func (c *ShopClient) Logout(ctx context.Context, token string) (*ConfirmationJSON, error) {
	out := new(ConfirmationJSON)
	err := c.Call(ctx, "Logout", token, &Empty{}, out)
	return out, err
}

func (c *ShopClient) Resolve(ctx context.Context, token, confirmationID string, confirm bool) (*ResolutionJSON, error) {
	out := new(ResolutionJSON)
	err := c.Call(ctx, "Resolve", token, &ResolveRequest{ConfirmationID: confirmationID, Confirm: confirm}, out)
	return out, err
}
