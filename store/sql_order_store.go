package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"salesdash/api/logger"
	"salesdash/api/models"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

// SQLOrderStore reads the order_lines table through database/sql.
type SQLOrderStore struct {
	db      *sql.DB
	dialect string
}

func NewSQLOrderStore(db *sql.DB, dialect string) (*SQLOrderStore, error) {
	if dialect != DialectPostgres && dialect != DialectMySQL {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	return &SQLOrderStore{db: db, dialect: dialect}, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func rebind(dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLOrderStore) LoadOrders(ctx context.Context, start, end time.Time) ([]models.OrderLine, error) {
	query := rebind(s.dialect, `
		SELECT order_id, COALESCE(order_item_id, ''), customer_unique_id,
			COALESCE(customer_city, ''), COALESCE(customer_state, ''),
			COALESCE(product_category_name_english, ''), price,
			order_purchase_timestamp, order_delivered_customer_date
		FROM order_lines
		WHERE order_purchase_timestamp >= ? AND order_purchase_timestamp <= ?
		ORDER BY order_purchase_timestamp ASC
	`)

	rows, err := s.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var results []models.OrderLine
	for rows.Next() {
		var (
			line      models.OrderLine
			delivered sql.NullTime
		)
		if err := rows.Scan(
			&line.OrderID,
			&line.OrderItemID,
			&line.CustomerUniqueID,
			&line.CustomerCity,
			&line.CustomerState,
			&line.ProductCategory,
			&line.Price,
			&line.PurchaseTimestamp,
			&delivered,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if delivered.Valid {
			t := delivered.Time
			line.DeliveredAt = &t
		}
		results = append(results, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during order lines query: %w", err)
	}

	logger.Debug("Order lines loaded", zap.String("dialect", s.dialect), zap.Int("rows", len(results)))
	return results, nil
}

func (s *SQLOrderStore) Bounds(ctx context.Context) (time.Time, time.Time, error) {
	var lo, hi sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT MIN(order_purchase_timestamp), MAX(order_purchase_timestamp) FROM order_lines`,
	).Scan(&lo, &hi)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to query order date bounds: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return time.Time{}, time.Time{}, ErrNoOrders
	}
	return lo.Time, hi.Time, nil
}
