package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-restaurant/events"
	"qr-restaurant/models"
)

type fakeOrderStore struct {
	mu         sync.Mutex
	orders     map[int]*models.Order
	nextID     int
	lastNumber string

	createCalls int
	createErrs  []error
	failNextCAS bool
	casRacedTo  models.OrderStatus
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int]*models.Order{}}
}

func (f *fakeOrderStore) LastOrderNumber(_ context.Context, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastNumber, nil
}

func (f *fakeOrderStore) CreateWithItems(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if errors.Is(err, models.ErrDuplicateOrderNumber) {
			// The colliding number is now taken in storage.
			f.lastNumber = order.OrderNumber
		}
		return err
	}
	f.nextID++
	order.ID = f.nextID
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders[order.ID] = &stored
	f.lastNumber = order.OrderNumber
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id int) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	copied := *order
	copied.Items = append([]models.OrderItem(nil), order.Items...)
	return &copied, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id int, from, to models.OrderStatus, updatedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	if f.failNextCAS {
		f.failNextCAS = false
		order.Status = f.casRacedTo
		return false, nil
	}
	if order.Status != from {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = updatedAt
	return true, nil
}

func (f *fakeOrderStore) List(_ context.Context, filter models.OrderFilter) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		if filter.TableID != 0 && order.TableID != filter.TableID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.ActiveOnly &&
			(order.Status == models.StatusServed || order.Status == models.StatusCancelled) {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderStore) Dashboard(_ context.Context, _ time.Time) (*models.DashboardStats, error) {
	return &models.DashboardStats{}, nil
}

type fakeMenuStore struct {
	items map[int]*models.MenuItem
}

func (f *fakeMenuStore) GetMenuItemByID(_ context.Context, id int) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, models.ErrMenuItemNotFound
	}
	return item, nil
}

type fakeTableStore struct {
	tables map[int]*models.Table
}

func (f *fakeTableStore) GetActiveTableByID(_ context.Context, id int) (*models.Table, error) {
	table, ok := f.tables[id]
	if !ok || !table.IsActive {
		return nil, models.ErrTableNotFound
	}
	return table, nil
}

func testFixtures() (*fakeOrderStore, *fakeMenuStore, *fakeTableStore) {
	orders := newFakeOrderStore()
	menu := &fakeMenuStore{items: map[int]*models.MenuItem{
		1: {ID: 1, Name: "Nasi Goreng", Price: decimal.RequireFromString("5.00"), Available: true, PreparationTime: 10},
		2: {ID: 2, Name: "Es Teh", Price: decimal.RequireFromString("3.50"), Available: true, PreparationTime: 12},
	}}
	tables := &fakeTableStore{tables: map[int]*models.Table{
		3: {ID: 3, Number: 3, Name: "Table 3", IsActive: true},
	}}
	return orders, menu, tables
}

func newTestService(orders *fakeOrderStore, menu *fakeMenuStore, tables *fakeTableStore, bus *events.Bus) *OrderService {
	svc := NewOrderService(orders, menu, tables, bus)
	svc.logger = slog.New(slog.DiscardHandler)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func createRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		TableID:      3,
		CustomerName: "Andi",
		Items: []models.CreateOrderItemRequest{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 2, Quantity: 1},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())

	order, err := svc.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)

	assert.Equal(t, "2503150001", order.OrderNumber)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("13.50")))
	assert.True(t, order.ServiceCharge.Equal(decimal.RequireFromString("1.35")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("14.85")))
	// Slowest item takes 12 minutes, plus the kitchen buffer.
	assert.Equal(t, 17, order.EstimatedTime)
	assert.Equal(t, 3, order.TableNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Nasi Goreng", order.Items[0].MenuItemName)

	persisted, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, persisted.OrderNumber)
}

func TestCreateOrderValidation(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())

	_, err := svc.CreateOrder(context.Background(), models.CreateOrderRequest{TableID: 3})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req := createRequest()
	req.Items[0].Quantity = 0
	_, err = svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = createRequest()
	req.TableID = 99
	_, err = svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrTableNotFound)

	req = createRequest()
	req.Items[1].MenuItemID = 99
	_, err = svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrMenuItemNotFound)

	assert.Zero(t, orders.createCalls, "nothing should be persisted on validation failure")
}

func TestCreateOrderPublishesNewOrderEvent(t *testing.T) {
	orders, menu, tables := testFixtures()
	bus := events.NewBus()
	svc := newTestService(orders, menu, tables, bus)

	kitchen := bus.Subscribe(events.TopicKitchen)
	defer kitchen.Close()
	table := bus.Subscribe(events.TableTopic(3))
	defer table.Close()
	otherTable := bus.Subscribe(events.TableTopic(7))
	defer otherTable.Close()

	order, err := svc.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)

	ev := <-kitchen.Events()
	assert.Equal(t, events.KindNewOrder, ev.Kind)
	assert.Equal(t, order.OrderNumber, ev.Order.OrderNumber)
	assert.Empty(t, ev.OldStatus)

	ev = <-table.Events()
	assert.Equal(t, events.KindNewOrder, ev.Kind)

	select {
	case ev := <-otherTable.Events():
		t.Fatalf("table 7 received event for table 3: %+v", ev)
	default:
	}
}

func TestCreateOrderSucceedsWithoutSubscribers(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())

	_, err := svc.CreateOrder(context.Background(), createRequest())
	assert.NoError(t, err)
}

func TestCreateOrderRetriesOnDuplicateNumber(t *testing.T) {
	orders, menu, tables := testFixtures()
	orders.createErrs = []error{models.ErrDuplicateOrderNumber}
	svc := newTestService(orders, menu, tables, events.NewBus())

	order, err := svc.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)

	// First attempt collided on 0001; after resync the allocator picks
	// up from the persisted number.
	assert.Equal(t, "2503150002", order.OrderNumber)
	assert.Equal(t, 2, orders.createCalls)
}

func TestCreateOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	orders, menu, tables := testFixtures()
	orders.createErrs = []error{
		models.ErrDuplicateOrderNumber,
		models.ErrDuplicateOrderNumber,
		models.ErrDuplicateOrderNumber,
	}
	svc := newTestService(orders, menu, tables, events.NewBus())

	_, err := svc.CreateOrder(context.Background(), createRequest())
	assert.ErrorIs(t, err, models.ErrAllocationRetries)
	assert.Equal(t, 3, orders.createCalls)
}

func TestCreateOrderStorageError(t *testing.T) {
	orders, menu, tables := testFixtures()
	storeErr := errors.New("connection reset")
	orders.createErrs = []error{storeErr}
	svc := newTestService(orders, menu, tables, events.NewBus())

	_, err := svc.CreateOrder(context.Background(), createRequest())
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, orders.createCalls, "storage errors are not retried")
}

func mustCreateOrder(t *testing.T, svc *OrderService) *models.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)
	return order
}

func TestUpdateStatus(t *testing.T) {
	orders, menu, tables := testFixtures()
	bus := events.NewBus()
	svc := newTestService(orders, menu, tables, bus)
	order := mustCreateOrder(t, svc)

	kitchen := bus.Subscribe(events.TopicKitchen)
	defer kitchen.Close()

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	persisted, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, persisted.Status)

	ev := <-kitchen.Events()
	assert.Equal(t, events.KindStatusUpdate, ev.Kind)
	assert.Equal(t, models.StatusPending, ev.OldStatus)
	assert.Equal(t, models.StatusConfirmed, ev.Order.Status)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	orders, menu, tables := testFixtures()
	bus := events.NewBus()
	svc := newTestService(orders, menu, tables, bus)
	order := mustCreateOrder(t, svc)

	kitchen := bus.Subscribe(events.TopicKitchen)
	defer kitchen.Close()

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusCooking)
	var transErr *models.InvalidTransitionError
	require.True(t, errors.As(err, &transErr))
	assert.Equal(t, models.StatusPending, transErr.Current)

	persisted, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, persisted.Status)

	select {
	case ev := <-kitchen.Events():
		t.Fatalf("no event expected for a rejected transition, got %+v", ev)
	default:
	}
}

func TestUpdateStatusFullLifecycle(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())
	order := mustCreateOrder(t, svc)

	for _, status := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusCooking,
		models.StatusReady, models.StatusServed,
	} {
		updated, err := svc.UpdateStatus(context.Background(), order.ID, status)
		require.NoError(t, err, "transition to %s", status)
		assert.Equal(t, status, updated.Status)
	}

	// Served is terminal.
	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled)
	var transErr *models.InvalidTransitionError
	assert.True(t, errors.As(err, &transErr))
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())
	order := mustCreateOrder(t, svc)

	_, err := svc.UpdateStatus(context.Background(), order.ID, "delivered")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())

	_, err := svc.UpdateStatus(context.Background(), 99, models.StatusConfirmed)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestUpdateStatusRetriesAfterLostRace(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())
	order := mustCreateOrder(t, svc)

	// First swap loses to a racer that confirmed the order; cancelling
	// is still legal from confirmed, so the retry succeeds.
	orders.failNextCAS = true
	orders.casRacedTo = models.StatusConfirmed

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestUpdateStatusConcurrent(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())
	order := mustCreateOrder(t, svc)

	results := make(chan error, 2)
	go func() {
		_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusConfirmed)
		results <- err
	}()
	go func() {
		_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled)
		results <- err
	}()

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			failures = append(failures, err)
		}
	}

	persisted, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)

	switch len(failures) {
	case 0:
		// confirmed then cancelled happens to be a legal sequence.
		assert.Equal(t, models.StatusCancelled, persisted.Status)
	case 1:
		var transErr *models.InvalidTransitionError
		require.True(t, errors.As(failures[0], &transErr))
		assert.Contains(t,
			[]models.OrderStatus{models.StatusConfirmed, models.StatusCancelled},
			persisted.Status)
	default:
		t.Fatalf("both updates failed: %v", failures)
	}
}

func TestEventOrderingPerSubscriber(t *testing.T) {
	orders, menu, tables := testFixtures()
	bus := events.NewBus()
	svc := newTestService(orders, menu, tables, bus)

	kitchen := bus.Subscribe(events.TopicKitchen)
	defer kitchen.Close()

	order := mustCreateOrder(t, svc)
	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusCooking)
	require.NoError(t, err)

	assert.Equal(t, events.KindNewOrder, (<-kitchen.Events()).Kind)

	ev := <-kitchen.Events()
	assert.Equal(t, events.KindStatusUpdate, ev.Kind)
	assert.Equal(t, models.StatusPending, ev.OldStatus)

	ev = <-kitchen.Events()
	assert.Equal(t, events.KindStatusUpdate, ev.Kind)
	assert.Equal(t, models.StatusConfirmed, ev.OldStatus)
}

func TestListKitchenOrders(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())
	order := mustCreateOrder(t, svc)
	served := mustCreateOrder(t, svc)
	for _, status := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusCooking,
		models.StatusReady, models.StatusServed,
	} {
		_, err := svc.UpdateStatus(context.Background(), served.ID, status)
		require.NoError(t, err)
	}

	active, err := svc.ListKitchenOrders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, order.ID, active[0].ID)

	_, err = svc.ListKitchenOrders(context.Background(), "delivered")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDeleteOrder(t *testing.T) {
	orders, menu, tables := testFixtures()
	svc := newTestService(orders, menu, tables, events.NewBus())
	order := mustCreateOrder(t, svc)

	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), 99), models.ErrOrderNotFound)

	require.NoError(t, svc.DeleteOrder(context.Background(), order.ID))
	_, err := svc.GetOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
