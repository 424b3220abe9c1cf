package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"qr-restaurant/events"
	"qr-restaurant/models"
)

// MenuStore resolves catalog items referenced by incoming orders.
type MenuStore interface {
	GetMenuItemByID(ctx context.Context, id int) (*models.MenuItem, error)
}

// TableStore resolves active tables referenced by incoming orders.
type TableStore interface {
	GetActiveTableByID(ctx context.Context, id int) (*models.Table, error)
}

// OrderStore is the persistence the order lifecycle depends on.
// CreateWithItems must persist the order and its items as one atomic
// unit and return models.ErrDuplicateOrderNumber on an order-number
// collision. UpdateStatus is a compare-and-swap on the stored status
// and reports whether the row was actually updated.
type OrderStore interface {
	OrderNumberStore
	CreateWithItems(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int, from, to models.OrderStatus, updatedAt time.Time) (bool, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	Delete(ctx context.Context, id int) error
	Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error)
}

const (
	// estimatedTimeBuffer is added on top of the slowest item's
	// preparation time.
	estimatedTimeBuffer = 5

	createAttempts    = 3
	transitionRetries = 3
)

// OrderService orchestrates the order lifecycle: number allocation,
// pricing, persistence, status transitions, and event fan-out.
type OrderService struct {
	orders    OrderStore
	menu      MenuStore
	tables    TableStore
	allocator *OrderNumberAllocator
	bus       *events.Bus
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrderService(orders OrderStore, menu MenuStore, tables TableStore, bus *events.Bus) *OrderService {
	return &OrderService{
		orders:    orders,
		menu:      menu,
		tables:    tables,
		allocator: NewOrderNumberAllocator(orders),
		bus:       bus,
		logger:    slog.Default(),
		now:       time.Now,
	}
}

// CreateOrder validates the request, captures current catalog prices,
// allocates an order number, persists order and items atomically, and
// publishes a new_order event. Event delivery is best-effort and never
// affects the result.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", models.ErrInvalidInput)
	}

	table, err := s.tables.GetActiveTableByID(ctx, req.TableID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]models.OrderItem, 0, len(req.Items))
	maxPrepTime := 0
	for _, reqItem := range req.Items {
		if reqItem.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", models.ErrInvalidInput)
		}
		menuItem, err := s.menu.GetMenuItemByID(ctx, reqItem.MenuItemID)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			MenuItemID:   menuItem.ID,
			MenuItemName: menuItem.Name,
			Quantity:     reqItem.Quantity,
			UnitPrice:    menuItem.Price,
			Notes:        reqItem.Notes,
			CreatedAt:    now,
		})
		if menuItem.PreparationTime > maxPrepTime {
			maxPrepTime = menuItem.PreparationTime
		}
	}

	subtotal, serviceCharge, total := ComputeTotals(items)

	order := &models.Order{
		TableID:       table.ID,
		TableNumber:   table.Number,
		TableName:     table.Name,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		Subtotal:      subtotal,
		ServiceCharge: serviceCharge,
		Total:         total,
		Notes:         req.Notes,
		CustomerName:  req.CustomerName,
		EstimatedTime: maxPrepTime + estimatedTimeBuffer,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The allocator serializes in-process callers; the unique
	// constraint on order_number catches a concurrent process, in
	// which case we re-seed from storage and try again.
	for attempt := 1; attempt <= createAttempts; attempt++ {
		number, err := s.allocator.Allocate(ctx, now)
		if err != nil {
			return nil, err
		}
		order.OrderNumber = number

		err = s.orders.CreateWithItems(ctx, order)
		if err == nil {
			s.publish(events.OrderEvent{Kind: events.KindNewOrder, Order: order})
			return order, nil
		}
		if !errors.Is(err, models.ErrDuplicateOrderNumber) {
			return nil, err
		}

		s.logger.Warn("order number collision, resyncing allocator",
			"order_number", number, "attempt", attempt)
		s.allocator.Resync()
	}

	return nil, models.ErrAllocationRetries
}

// UpdateStatus applies a validated status transition. The transition
// is checked against the currently persisted status and applied with a
// compare-and-swap, so a racing update loses cleanly: its validation
// re-runs against the winner's state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, requested models.OrderStatus) (*models.Order, error) {
	if !models.IsValidStatus(requested) {
		return nil, fmt.Errorf("%w: unknown status '%s'", models.ErrInvalidInput, requested)
	}

	for attempt := 0; attempt < transitionRetries; attempt++ {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		if err := models.ValidateTransition(order.Status, requested); err != nil {
			return nil, err
		}

		now := s.now()
		swapped, err := s.orders.UpdateStatus(ctx, orderID, order.Status, requested, now)
		if err != nil {
			return nil, err
		}
		if !swapped {
			// Lost a race; re-read and validate against the fresh state.
			continue
		}

		oldStatus := order.Status
		order.Status = requested
		order.UpdatedAt = now

		s.publish(events.OrderEvent{
			Kind:      events.KindStatusUpdate,
			Order:     order,
			OldStatus: oldStatus,
		})
		return order, nil
	}

	// Persistently losing the race means the order is being mutated
	// faster than we can read it; report against the last seen state.
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return nil, &models.InvalidTransitionError{
		Current:   order.Status,
		Requested: requested,
		Allowed:   models.AllowedTransitions(order.Status),
	}
}

// GetOrder returns a single order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListTableOrders returns a table's orders newest first; activeOnly
// excludes terminal statuses.
func (s *OrderService) ListTableOrders(ctx context.Context, tableID int, activeOnly bool) ([]models.Order, error) {
	return s.orders.List(ctx, models.OrderFilter{TableID: tableID, ActiveOnly: activeOnly})
}

// ListKitchenOrders returns all non-terminal orders, optionally
// narrowed to one status.
func (s *OrderService) ListKitchenOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !models.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status '%s'", models.ErrInvalidInput, status)
	}
	return s.orders.List(ctx, models.OrderFilter{Status: status, ActiveOnly: true})
}

// DeleteOrder hard-deletes an order and its items. This is an
// administrative action, not part of the order lifecycle.
func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	if _, err := s.orders.GetByID(ctx, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

// Dashboard aggregates today's and the week's order statistics.
func (s *OrderService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return s.orders.Dashboard(ctx, s.now())
}

// publish fans an event out to the kitchen and the order's table.
// Delivery problems are logged, never returned: order operations
// succeed or fail independently of notification delivery.
func (s *OrderService) publish(ev events.OrderEvent) {
	kitchen := s.bus.Publish(events.TopicKitchen, ev)
	table := s.bus.Publish(events.TableTopic(ev.Order.TableNumber), ev)
	s.logger.Debug("order event published",
		"kind", ev.Kind,
		"order_number", ev.Order.OrderNumber,
		"kitchen_subscribers", kitchen,
		"table_subscribers", table)
}
