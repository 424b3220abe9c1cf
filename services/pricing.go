package services

import (
	"github.com/shopspring/decimal"

	"qr-restaurant/models"
)

// serviceChargeRate is the fixed 10% surcharge applied to every order.
var serviceChargeRate = decimal.RequireFromString("0.10")

// ComputeTotals derives subtotal, service charge, and total from a set
// of order lines. The service charge is rounded half-up to two decimal
// places; the total always equals subtotal plus service charge. Pure
// function, called exactly once at order creation.
func ComputeTotals(items []models.OrderItem) (subtotal, serviceCharge, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice())
	}
	serviceCharge = subtotal.Mul(serviceChargeRate).Round(2)
	total = subtotal.Add(serviceCharge)
	return subtotal, serviceCharge, total
}
