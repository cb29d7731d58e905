package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/bobashop?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func testOrder() domain.ArchivedOrder {
	return domain.ArchivedOrder{
		Username: "customer",
		Order: domain.Order{
			ID:       uuid.NewString(),
			PlacedAt: time.Now().UTC().Truncate(time.Millisecond),
			Lines: []domain.CartLine{
				{Item: domain.CatalogItem{ID: 1, Name: "Milk Tea", Price: decimal.NewFromInt(120), Image: "a.png"}, Quantity: 2},
				{Item: domain.CatalogItem{ID: 3, Name: "Ice Cream", Price: decimal.NewFromInt(100), Image: "c.png"}, Quantity: 1},
			},
		},
	}
}

func TestArchiveOrder_Success(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	if err := adapter.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	archived := testOrder()
	if err := adapter.ArchiveOrder(ctx, archived); err != nil {
		t.Fatalf("ArchiveOrder failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, archived.Order.ID)

	// Verify total
	var total string
	db.QueryRowContext(ctx, `SELECT total FROM orders WHERE id = ?`, archived.Order.ID).Scan(&total)
	if total != "340.00" {
		t.Errorf("expected total 340.00, got %s", total)
	}

	got, err := adapter.GetArchivedOrder(ctx, archived.Order.ID)
	if err != nil {
		t.Fatalf("GetArchivedOrder failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected archived order")
	}
	if got.Username != "customer" {
		t.Errorf("expected username customer, got %s", got.Username)
	}
	if len(got.Order.Lines) != 2 || got.Order.Lines[0].Quantity != 2 || got.Order.Lines[1].Item.ID != 3 {
		t.Errorf("unexpected lines: %+v", got.Order.Lines)
	}
}

func TestArchiveOrder_Duplicate(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	if err := adapter.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	archived := testOrder()
	if err := adapter.ArchiveOrder(ctx, archived); err != nil {
		t.Fatalf("ArchiveOrder failed: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, archived.Order.ID)

	err := adapter.ArchiveOrder(ctx, archived)
	if !errors.Is(err, ErrAlreadyArchived) {
		t.Errorf("expected ErrAlreadyArchived, got %v", err)
	}
}

func TestGetArchivedOrder_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	if err := adapter.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	got, err := adapter.GetArchivedOrder(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent order")
	}
}
