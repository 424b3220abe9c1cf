package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type MenuItem struct {
	ID              int             `json:"id"`
	CategoryID      int             `json:"category_id"`
	CategoryName    string          `json:"category_name,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Image           *string         `json:"image,omitempty"`
	Available       bool            `json:"available"`
	IsPopular       bool            `json:"is_popular"`
	PreparationTime int             `json:"preparation_time"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

type CreateMenuItemRequest struct {
	CategoryID      int    `form:"category_id" binding:"required"`
	Name            string `form:"name" binding:"required"`
	Description     string `form:"description"`
	Price           string `form:"price" binding:"required"`
	PreparationTime int    `form:"preparation_time"`
	IsPopular       bool   `form:"is_popular"`
}

type UpdateMenuItemRequest struct {
	CategoryID      int     `form:"category_id"`
	Name            string  `form:"name"`
	Description     *string `form:"description"`
	Price           string  `form:"price"`
	PreparationTime *int    `form:"preparation_time"`
	IsPopular       *bool   `form:"is_popular"`
	Available       *bool   `form:"available"`
}

type MenuFilter struct {
	CategoryID int
	Search     string
	Popular    bool
}
