package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"qr-restaurant/config"
	"qr-restaurant/models"
)

const pgUniqueViolation = "23505"

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// LastOrderNumber returns the numerically highest order number sharing
// the given date prefix, or "" when none exists. Fixed-width suffixes
// make lexicographic and numeric order agree.
func (r *OrderRepository) LastOrderNumber(ctx context.Context, prefix string) (string, error) {
	query := `SELECT order_number FROM orders
	          WHERE order_number LIKE $1 || '%'
	          ORDER BY order_number DESC LIMIT 1`

	var number string
	err := config.DB.QueryRow(ctx, query, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return number, nil
}

// CreateWithItems persists an order and its items in one transaction;
// a partial write is never observable. A collision on the
// order_number unique constraint maps to models.ErrDuplicateOrderNumber
// so the caller can re-allocate and retry.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	orderQuery := `INSERT INTO orders (order_number, table_id, status, payment_status,
	                   subtotal, service_charge, total, notes, customer_name, estimated_time,
	                   created_at, updated_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	               RETURNING id`

	err = tx.QueryRow(ctx, orderQuery,
		order.OrderNumber, order.TableID, order.Status, order.PaymentStatus,
		order.Subtotal, order.ServiceCharge, order.Total, order.Notes,
		order.CustomerName, order.EstimatedTime, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", models.ErrDuplicateOrderNumber, order.OrderNumber)
		}
		return err
	}

	itemQuery := `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, notes, created_at)
	              VALUES ($1, $2, $3, $4, $5, $6)
	              RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, item.MenuItemID, item.Quantity, item.UnitPrice, item.Notes, item.CreatedAt,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const orderColumns = `o.id, o.order_number, o.table_id, t.number, t.name, o.status, o.payment_status,
	o.subtotal, o.service_charge, o.total, o.notes, o.customer_name, o.estimated_time,
	o.created_at, o.updated_at`

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	query := `SELECT ` + orderColumns + `
	          FROM orders o JOIN tables t ON o.table_id = t.id
	          WHERE o.id = $1`

	var o models.Order
	err := config.DB.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.TableID, &o.TableNumber, &o.TableName, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.ServiceCharge, &o.Total, &o.Notes, &o.CustomerName, &o.EstimatedTime,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.itemsForOrders(ctx, []int{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	return &o, nil
}

// UpdateStatus is a compare-and-swap: the row is only updated when its
// persisted status still equals from. Reports whether the swap
// happened.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus, updatedAt time.Time) (bool, error) {
	tag, err := config.DB.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, updatedAt, id, from,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + `
	          FROM orders o JOIN tables t ON o.table_id = t.id`

	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.TableID > 0 {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argIndex))
		args = append(args, filter.TableID)
		argIndex++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "o.status NOT IN ('served', 'cancelled')")
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY o.created_at DESC"

	rows, err := config.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []int{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.TableID, &o.TableNumber, &o.TableName, &o.Status, &o.PaymentStatus,
			&o.Subtotal, &o.ServiceCharge, &o.Total, &o.Notes, &o.CustomerName, &o.EstimatedTime,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		o.Items = []models.OrderItem{}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		itemsByOrder, err := r.itemsForOrders(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			if items, ok := itemsByOrder[orders[i].ID]; ok {
				orders[i].Items = items
			}
		}
	}
	return orders, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *OrderRepository) itemsForOrders(ctx context.Context, orderIDs []int) (map[int][]models.OrderItem, error) {
	query := `SELECT i.id, i.order_id, i.menu_item_id, m.name, i.quantity, i.unit_price, i.notes, i.created_at
	          FROM order_items i JOIN menu_items m ON i.menu_item_id = m.id
	          WHERE i.order_id = ANY($1)
	          ORDER BY i.created_at, i.id`

	rows, err := config.DB.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[int][]models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.MenuItemName,
			&item.Quantity, &item.UnitPrice, &item.Notes, &item.CreatedAt); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	return result, rows.Err()
}

// Dashboard aggregates the admin overview: today's volume and revenue,
// active work in progress, and the week's popular items.
func (r *OrderRepository) Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := todayStart.AddDate(0, 0, -7)

	err := config.DB.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1),
			COALESCE(SUM(total) FILTER (WHERE created_at >= $1
				AND status IN ('confirmed', 'cooking', 'ready', 'served')), 0),
			COUNT(*) FILTER (WHERE status NOT IN ('served', 'cancelled')),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(total) FILTER (WHERE created_at >= $2
				AND status IN ('confirmed', 'cooking', 'ready', 'served')), 0)
		FROM orders`, todayStart, weekAgo,
	).Scan(
		&stats.Today.Orders,
		&stats.Today.Revenue,
		&stats.Today.ActiveOrders,
		&stats.Today.PendingOrders,
		&stats.Weekly.Revenue,
	)
	if err != nil {
		return nil, err
	}

	err = config.DB.QueryRow(ctx, `
		SELECT COUNT(DISTINCT table_id) FROM orders
		WHERE status IN ('pending', 'confirmed', 'cooking', 'ready')`,
	).Scan(&stats.Today.ActiveTables)
	if err != nil {
		return nil, err
	}

	err = config.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM tables WHERE is_active = true`,
	).Scan(&stats.TotalTables)
	if err != nil {
		return nil, err
	}

	rows, err := config.DB.Query(ctx, `
		SELECT m.name, SUM(i.quantity) AS total_ordered
		FROM order_items i
		JOIN menu_items m ON i.menu_item_id = m.id
		JOIN orders o ON i.order_id = o.id
		WHERE o.created_at >= $1
		GROUP BY m.name
		ORDER BY total_ordered DESC
		LIMIT 5`, weekAgo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.PopularItems = []models.PopularItem{}
	for rows.Next() {
		var item models.PopularItem
		if err := rows.Scan(&item.Name, &item.TotalOrdered); err != nil {
			return nil, err
		}
		stats.PopularItems = append(stats.PopularItems, item)
	}
	return stats, rows.Err()
}
