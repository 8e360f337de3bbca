package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"salesdash/api/database"
	"salesdash/api/logger"
	"salesdash/api/models"
)

const clickHouseSchema = `
	CREATE TABLE IF NOT EXISTS order_lines (
		line_id String,
		order_id String,
		order_item_id String,
		customer_unique_id String,
		customer_city LowCardinality(String),
		customer_state LowCardinality(String),
		product_category_name_english LowCardinality(String),
		price Float64,
		order_purchase_timestamp DateTime,
		order_delivered_customer_date Nullable(DateTime)
	) ENGINE = MergeTree
	ORDER BY (order_purchase_timestamp, customer_unique_id)
`

// clickHouseConn is the subset of clickhouse.Conn the order store uses.
type clickHouseConn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) driver.Row
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
}

// ClickHouseOrderStore reads and appends order lines in ClickHouse.
type ClickHouseOrderStore struct {
	conn clickHouseConn
}

func NewClickHouseOrderStore(chClient *database.ClickHouseClient) *ClickHouseOrderStore {
	return &ClickHouseOrderStore{conn: chClient.Conn}
}

func (s *ClickHouseOrderStore) EnsureSchema(ctx context.Context) error {
	if err := s.conn.Exec(ctx, clickHouseSchema); err != nil {
		return fmt.Errorf("failed to create order_lines table: %w", err)
	}
	return nil
}

func (s *ClickHouseOrderStore) InsertOrderLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO order_lines (
			line_id, order_id, order_item_id, customer_unique_id, customer_city, customer_state,
			product_category_name_english, price, order_purchase_timestamp, order_delivered_customer_date
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, line := range lines {
		err := batch.Append(
			line.LineID,
			line.OrderID,
			line.OrderItemID,
			line.CustomerUniqueID,
			line.CustomerCity,
			line.CustomerState,
			line.ProductCategory,
			line.Price,
			line.PurchaseTimestamp,
			line.DeliveredAt,
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("failed to append order line %s: %w", line.LineID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	logger.Info("Inserted order lines", zap.Int("count", len(lines)))
	return nil
}

func (s *ClickHouseOrderStore) LoadOrders(ctx context.Context, start, end time.Time) ([]models.OrderLine, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT line_id, order_id, order_item_id, customer_unique_id, customer_city, customer_state,
			product_category_name_english, price, order_purchase_timestamp, order_delivered_customer_date
		FROM order_lines
		WHERE order_purchase_timestamp >= ? AND order_purchase_timestamp <= ?
		ORDER BY order_purchase_timestamp ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var results []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(
			&line.LineID,
			&line.OrderID,
			&line.OrderItemID,
			&line.CustomerUniqueID,
			&line.CustomerCity,
			&line.CustomerState,
			&line.ProductCategory,
			&line.Price,
			&line.PurchaseTimestamp,
			&line.DeliveredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		results = append(results, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}
	return results, nil
}

func (s *ClickHouseOrderStore) Bounds(ctx context.Context) (time.Time, time.Time, error) {
	var (
		lo, hi time.Time
		n      uint64
	)
	err := s.conn.QueryRow(ctx, `
		SELECT min(order_purchase_timestamp), max(order_purchase_timestamp), count()
		FROM order_lines
	`).Scan(&lo, &hi, &n)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to query order date bounds: %w", err)
	}
	if n == 0 {
		return time.Time{}, time.Time{}, ErrNoOrders
	}
	return lo, hi, nil
}
