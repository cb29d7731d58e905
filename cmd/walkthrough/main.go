package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/boba-shop/internal/adapter/handler"
	"github.com/rl1809/boba-shop/internal/config"
	"github.com/rl1809/boba-shop/internal/logx"
)

const (
	totalCustomers = 50
	cupsPerOrder   = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})

	addr := cfg.GRPCAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logx.Fatal().Err(err).Str("addr", addr).Msg("failed to create client")
	}
	defer conn.Close()
	client := handler.NewShopClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := client.ListItems(ctx)
	if err != nil || len(items.Items) == 0 {
		logx.Fatal().Err(err).Msg("storefront unavailable")
	}
	item := items.Items[0]

	var placed, duplicates, failed atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalCustomers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := checkout(ctx, client, cfg, item.ID, fmt.Sprintf("walk-%d", n)); err != nil {
				logx.Debug().Err(err).Int("customer", n).Msg("checkout failed")
				failed.Add(1)
				return
			}
			placed.Add(1)
			if err := replay(ctx, client, cfg, item.ID, fmt.Sprintf("walk-%d", n)); err == nil {
				duplicates.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("============ WALKTHROUGH RESULTS ============")
	fmt.Printf("Item:               %s (%s)\n", item.Name, item.Price)
	fmt.Printf("Customers:          %d\n", totalCustomers)
	fmt.Printf("Orders placed:      %d\n", placed.Load())
	fmt.Printf("Replays rejected:   %d\n", duplicates.Load())
	fmt.Printf("Failed:             %d\n", failed.Load())
	fmt.Printf("Duration:           %v\n", elapsed)
	fmt.Println("=============================================")

	if placed.Load() == totalCustomers && duplicates.Load() == totalCustomers {
		fmt.Println("PASS: every session ordered once and every replay was rejected")
	} else {
		fmt.Println("FAIL: expected one order and one rejected replay per customer")
	}

	if err := adminFlow(ctx, client, cfg); err != nil {
		fmt.Printf("FAIL: admin flow: %v\n", err)
	} else {
		fmt.Println("PASS: admin added, listed and deleted a product")
	}
}

// checkout logs in as the customer, fills the cart and places one order
// under key.
func checkout(ctx context.Context, client *handler.ShopClient, cfg config.Config, itemID int64, key string) error {
	s, err := client.Login(ctx, "customer", cfg.CustomerUsername, cfg.CustomerPassword)
	if err != nil {
		return err
	}
	for i := 0; i < cupsPerOrder; i++ {
		if _, err := client.AddToCart(ctx, s.Token, itemID); err != nil {
			return err
		}
	}
	out, err := client.PlaceOrder(ctx, s.Token, key)
	if err != nil {
		return err
	}
	if !out.Placed {
		return fmt.Errorf("order not placed")
	}
	orders, err := client.ListOrders(ctx, s.Token)
	if err != nil {
		return err
	}
	if len(orders.Orders) != 1 || orders.Orders[0].ItemCount != cupsPerOrder {
		return fmt.Errorf("unexpected order history: %+v", orders.Orders)
	}
	return nil
}

// replay orders once under key on a fresh session, then repeats key on the
// same session. A nil error means the repeat was rejected.
func replay(ctx context.Context, client *handler.ShopClient, cfg config.Config, itemID int64, key string) error {
	s, err := client.Login(ctx, "customer", cfg.CustomerUsername, cfg.CustomerPassword)
	if err != nil {
		return err
	}
	if _, err := client.AddToCart(ctx, s.Token, itemID); err != nil {
		return err
	}
	if _, err := client.PlaceOrder(ctx, s.Token, key); err != nil {
		return err
	}
	if _, err := client.AddToCart(ctx, s.Token, itemID); err != nil {
		return err
	}
	_, err = client.PlaceOrder(ctx, s.Token, key)
	if err == nil {
		return fmt.Errorf("replayed key accepted")
	}
	return nil
}

func adminFlow(ctx context.Context, client *handler.ShopClient, cfg config.Config) error {
	s, err := client.Login(ctx, "admin", cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}
	p, err := client.AddProduct(ctx, s.Token, handler.ProductFormJSON{
		ImageURL:   "https://example.com/brown-sugar.png",
		Name:       "Brown Sugar Boba",
		Quantity:   "24",
		Price:      "135",
		ExpiryDate: time.Now().AddDate(0, 1, 0).Format(time.DateOnly),
	})
	if err != nil {
		return err
	}
	list, err := client.ListProducts(ctx, s.Token)
	if err != nil {
		return err
	}
	if len(list.Products) != 1 {
		return fmt.Errorf("expected 1 product, got %d", len(list.Products))
	}
	c, err := client.DeleteProduct(ctx, s.Token, p.ID)
	if err != nil {
		return err
	}
	if _, err := client.Resolve(ctx, s.Token, c.ID, true); err != nil {
		return err
	}
	c, err = client.Logout(ctx, s.Token)
	if err != nil {
		return err
	}
	_, err = client.Resolve(ctx, s.Token, c.ID, true)
	return err
}
