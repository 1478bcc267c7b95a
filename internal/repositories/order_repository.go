package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

// Create persists an order with its items in one transaction. Callers must
// have already deducted finished stock; an order row implies its stock is
// gone.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO orders(buyer_id, status, total_amount, notes, order_date)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		o.BuyerID, o.Status, o.TotalAmount, o.Notes, o.OrderDate,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items(order_id, sub_product_id, quantity_kg, rate, amount)
             VALUES($1, $2, $3, $4, $5) RETURNING id`,
			item.OrderID, item.SubProductID, item.QuantityKg, item.Rate, item.Amount,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT o.id, o.buyer_id, COALESCE(b.name, ''), o.status, o.total_amount,
                COALESCE(o.notes, ''), o.order_date::text, o.created_at
         FROM orders o
         LEFT JOIN buyers b ON b.id = o.buyer_id
         WHERE o.id=$1`, id)

	var o models.Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.BuyerName, &o.Status, &o.TotalAmount,
		&o.Notes, &o.OrderDate, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("order %d not found: %w", id, err)
	}

	items, err := r.itemsForOrders(ctx, []int{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

// List returns orders newest first with items attached.
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.DB.Query(ctx,
		`SELECT o.id, o.buyer_id, COALESCE(b.name, ''), o.status, o.total_amount,
                COALESCE(o.notes, ''), o.order_date::text, o.created_at
         FROM orders o
         LEFT JOIN buyers b ON b.id = o.buyer_id
         ORDER BY o.order_date DESC, o.id DESC
         LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	var ids []int
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.BuyerID, &o.BuyerName, &o.Status, &o.TotalAmount,
			&o.Notes, &o.OrderDate, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

func (r *OrderRepository) itemsForOrders(ctx context.Context, orderIDs []int) (map[int][]models.OrderItem, error) {
	result := make(map[int][]models.OrderItem)
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, order_id, sub_product_id, quantity_kg, rate, amount
         FROM order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SubProductID, &item.QuantityKg, &item.Rate, &item.Amount); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	return result, rows.Err()
}

// UpdateStatus flips an order between completed and cancelled.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error {
	tag, err := r.DB.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", id)
	}
	return nil
}

// ListCompleted streams every completed order with items, oldest first.
// Used by the history-replay reconstruction.
func (r *OrderRepository) ListCompleted(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT o.id, o.buyer_id, COALESCE(b.name, ''), o.status, o.total_amount,
                COALESCE(o.notes, ''), o.order_date::text, o.created_at
         FROM orders o
         LEFT JOIN buyers b ON b.id = o.buyer_id
         WHERE o.status = 'completed'
         ORDER BY o.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	var ids []int
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.BuyerID, &o.BuyerName, &o.Status, &o.TotalAmount,
			&o.Notes, &o.OrderDate, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}
