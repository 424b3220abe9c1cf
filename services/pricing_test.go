package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"qr-restaurant/models"
)

func line(price string, qty int) models.OrderItem {
	return models.OrderItem{
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name          string
		items         []models.OrderItem
		subtotal      string
		serviceCharge string
		total         string
	}{
		{
			name:          "two lines",
			items:         []models.OrderItem{line("5.00", 2), line("3.50", 1)},
			subtotal:      "13.50",
			serviceCharge: "1.35",
			total:         "14.85",
		},
		{
			name:          "single line",
			items:         []models.OrderItem{line("12.00", 1)},
			subtotal:      "12.00",
			serviceCharge: "1.20",
			total:         "13.20",
		},
		{
			name:          "service charge rounds half up",
			items:         []models.OrderItem{line("10.05", 1)},
			subtotal:      "10.05",
			serviceCharge: "1.01",
			total:         "11.06",
		},
		{
			name:          "rounding boundary at half a cent",
			items:         []models.OrderItem{line("0.15", 1)},
			subtotal:      "0.15",
			serviceCharge: "0.02",
			total:         "0.17",
		},
		{
			name:          "rounds down below half a cent",
			items:         []models.OrderItem{line("10.04", 1)},
			subtotal:      "10.04",
			serviceCharge: "1.00",
			total:         "11.04",
		},
		{
			name:          "no items",
			items:         nil,
			subtotal:      "0",
			serviceCharge: "0",
			total:         "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, serviceCharge, total := ComputeTotals(tt.items)
			assert.True(t, subtotal.Equal(decimal.RequireFromString(tt.subtotal)),
				"subtotal: got %s", subtotal)
			assert.True(t, serviceCharge.Equal(decimal.RequireFromString(tt.serviceCharge)),
				"service charge: got %s", serviceCharge)
			assert.True(t, total.Equal(decimal.RequireFromString(tt.total)),
				"total: got %s", total)
		})
	}
}

func TestComputeTotalsSumInvariant(t *testing.T) {
	items := []models.OrderItem{
		line("7.77", 3), line("0.01", 1), line("199.99", 2),
	}
	subtotal, serviceCharge, total := ComputeTotals(items)
	assert.True(t, total.Equal(subtotal.Add(serviceCharge)))
}

func TestOrderItemTotalPrice(t *testing.T) {
	item := line("5.25", 3)
	assert.True(t, item.TotalPrice().Equal(decimal.RequireFromString("15.75")))
}
