package sqlite

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

// CountProductUsages reports how many order line items still cite the
// product. The deletion guard permits removal only when this is zero.
func (s *Store) CountProductUsages(ctx context.Context, productID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM order_items WHERE product_id = ?`

	var count int64
	if err := s.db.GetContext(ctx, &count, query, productID); err != nil {
		return 0, fmt.Errorf("cannot count usages for product %s: %w", productID, mapSqlError(err))
	}
	return count, nil
}

// Orders come in through the sales flow, not the console; the store only
// needs enough surface for the usage counter and its tests.
func (s *Store) CreateOrder(ctx context.Context, o *storage.Order) (*storage.Order, error) {
	if o == nil {
		return nil, errNilRecord
	}

	query := `INSERT INTO orders (id, customer_id)
		VALUES (?, ?)
		RETURNING *`

	var out storage.Order
	if err := s.db.GetContext(ctx, &out, query, o.ID, o.CustomerID); err != nil {
		return nil, fmt.Errorf("cannot create order: %w", mapSqlError(err))
	}
	return &out, nil
}

func (s *Store) AddOrderItem(ctx context.Context, item *storage.OrderItem) (*storage.OrderItem, error) {
	if item == nil {
		return nil, errNilRecord
	}

	query := `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES (?, ?, ?, ?)
		RETURNING *`

	var out storage.OrderItem
	if err := s.db.GetContext(ctx, &out, query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
	); err != nil {
		return nil, fmt.Errorf("cannot add order item: %w", mapSqlError(err))
	}
	return &out, nil
}
