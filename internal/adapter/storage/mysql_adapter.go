package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

//go:embed schema.sql
var schemaSQL string

var ErrAlreadyArchived = errors.New("order already archived")

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the archive tables if they are missing.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) ArchiveOrder(ctx context.Context, archived domain.ArchivedOrder) error {
	order := archived.Order

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT IGNORE INTO orders (id, username, item_count, total, placed_at)
		VALUES (?, ?, ?, ?, ?)`,
		order.ID, archived.Username, order.ItemCount(), order.Total().StringFixed(2), order.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrAlreadyArchived
	}

	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, position, item_id, name, unit_price, image, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID, i, line.Item.ID, line.Item.Name, line.Item.Price.StringFixed(2), line.Item.Image, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetArchivedOrder(ctx context.Context, orderID string) (*domain.ArchivedOrder, error) {
	var archived domain.ArchivedOrder
	err := m.db.QueryRowContext(ctx, `
		SELECT id, username, placed_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(&archived.Order.ID, &archived.Username, &archived.Order.PlacedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT item_id, name, unit_price, image, quantity
		FROM order_lines WHERE order_id = ? ORDER BY position`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var price string
		if err := rows.Scan(&line.Item.ID, &line.Item.Name, &price, &line.Item.Image, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		if line.Item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse unit price: %w", err)
		}
		archived.Order.Lines = append(archived.Order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read order lines: %w", err)
	}

	return &archived, nil
}
