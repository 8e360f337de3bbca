// models/order.go
package models

import "time"

// OrderLine is one line item of the dashboard dataset.
type OrderLine struct {
	LineID            string     `json:"lineId"`
	OrderID           string     `json:"orderId" binding:"required"`
	OrderItemID       string     `json:"orderItemId"`
	CustomerUniqueID  string     `json:"customerUniqueId" binding:"required"`
	CustomerCity      string     `json:"customerCity"`
	CustomerState     string     `json:"customerState"`
	ProductCategory   string     `json:"productCategory"`
	Price             float64    `json:"price" binding:"gte=0"`
	PurchaseTimestamp time.Time  `json:"purchaseTimestamp" binding:"required"`
	DeliveredAt       *time.Time `json:"deliveredAt,omitempty"`
}

// DateRange is the inclusive window the dashboard was computed for.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
