package models

import "time"

type Table struct {
	ID                int       `json:"id"`
	Number            int       `json:"number"`
	Name              string    `json:"name"`
	Capacity          int       `json:"capacity"`
	IsActive          bool      `json:"is_active"`
	QRCode            *string   `json:"qr_code,omitempty"`
	ActiveOrdersCount int       `json:"active_orders_count"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateTableRequest struct {
	Number   int    `json:"number" binding:"required,gt=0"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type UpdateTableRequest struct {
	Name     string `json:"name"`
	Capacity *int   `json:"capacity"`
	IsActive *bool  `json:"is_active"`
}
