package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            int             `json:"id"`
	OrderNumber   string          `json:"order_number"`
	TableID       int             `json:"table_id"`
	TableNumber   int             `json:"table_number"`
	TableName     string          `json:"table_name,omitempty"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes"`
	CustomerName  string          `json:"customer_name"`
	EstimatedTime int             `json:"estimated_time"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID           int             `json:"id"`
	OrderID      int             `json:"order_id"`
	MenuItemID   int             `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TotalPrice is the line total: quantity times the unit price captured
// at order creation.
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CreateOrderItemRequest struct {
	MenuItemID int    `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Notes      string `json:"notes"`
}

type CreateOrderRequest struct {
	TableID      int                      `json:"table_id" binding:"required"`
	CustomerName string                   `json:"customer_name"`
	Notes        string                   `json:"notes"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

type OrderFilter struct {
	TableID    int
	Status     OrderStatus
	ActiveOnly bool
}

type DashboardStats struct {
	Today struct {
		Orders        int             `json:"orders"`
		Revenue       decimal.Decimal `json:"revenue"`
		ActiveOrders  int             `json:"active_orders"`
		ActiveTables  int             `json:"active_tables"`
		PendingOrders int             `json:"pending_orders"`
	} `json:"today"`
	Weekly struct {
		Revenue decimal.Decimal `json:"revenue"`
	} `json:"weekly"`
	PopularItems []PopularItem `json:"popular_items"`
	TotalTables  int           `json:"total_tables"`
}

type PopularItem struct {
	Name         string `json:"name"`
	TotalOrdered int    `json:"total_ordered"`
}
