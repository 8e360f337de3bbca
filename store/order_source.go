package store

import (
	"context"
	"time"

	"salesdash/api/models"
)

// OrderSource loads order lines purchased within [start, end].
type OrderSource interface {
	LoadOrders(ctx context.Context, start, end time.Time) ([]models.OrderLine, error)
	Bounds(ctx context.Context) (time.Time, time.Time, error)
}

// OrderSink accepts new order lines.
type OrderSink interface {
	InsertOrderLines(ctx context.Context, lines []models.OrderLine) error
}
