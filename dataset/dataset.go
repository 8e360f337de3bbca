// Package dataset loads the dashboard's CSV export and slices it by date.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"salesdash/api/logger"
	"salesdash/api/models"
)

const (
	colCustomerUniqueID = "customer_unique_id"
	colOrderID          = "order_id"
	colOrderItemID      = "order_item_id"
	colPurchaseTS       = "order_purchase_timestamp"
	colDeliveredDate    = "order_delivered_customer_date"
	colPrice            = "price"
	colCity             = "customer_city"
	colState            = "customer_state"
	colCategory         = "product_category_name_english"
)

var requiredColumns = []string{colCustomerUniqueID, colOrderID, colPurchaseTS, colPrice}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

var ErrNoRows = errors.New("dataset has no rows")

// Dataset is the full order table held in memory, sorted by purchase time.
type Dataset struct {
	rows []models.OrderLine
}

// LoadCSV reads the export at path.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Info("Dataset loaded", zap.String("path", path), zap.Int("rows", len(ds.rows)))
	return ds, nil
}

// Parse reads a CSV with a header row. Columns are matched by name.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	get := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []models.OrderLine
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := ParseTime(get(record, colPurchaseTS))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colPurchaseTS, err)
		}
		price, err := parsePrice(get(record, colPrice))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, colPrice, err)
		}
		row := models.OrderLine{
			OrderID:           get(record, colOrderID),
			OrderItemID:       get(record, colOrderItemID),
			CustomerUniqueID:  get(record, colCustomerUniqueID),
			CustomerCity:      get(record, colCity),
			CustomerState:     get(record, colState),
			ProductCategory:   get(record, colCategory),
			Price:             price,
			PurchaseTimestamp: ts,
		}
		if raw := get(record, colDeliveredDate); raw != "" {
			delivered, err := ParseTime(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, colDeliveredDate, err)
			}
			row.DeliveredAt = &delivered
		}
		if row.CustomerUniqueID == "" || row.OrderID == "" {
			return nil, fmt.Errorf("line %d: empty customer or order id", line)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return New(rows), nil
}

// New wraps rows, sorting them by purchase time.
func New(rows []models.OrderLine) *Dataset {
	sorted := make([]models.OrderLine, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PurchaseTimestamp.Before(sorted[j].PurchaseTimestamp)
	})
	return &Dataset{rows: sorted}
}

// ParseTime accepts the timestamp layouts found in the exports.
func ParseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("price %q must be a finite non-negative number", raw)
	}
	return price, nil
}

func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns the whole table. Callers must not modify it.
func (d *Dataset) Rows() []models.OrderLine { return d.rows }

// Bounds returns the earliest and latest purchase timestamps.
func (d *Dataset) Bounds(_ context.Context) (time.Time, time.Time, error) {
	if len(d.rows) == 0 {
		return time.Time{}, time.Time{}, ErrNoRows
	}
	return d.rows[0].PurchaseTimestamp, d.rows[len(d.rows)-1].PurchaseTimestamp, nil
}

// Filter keeps rows with start <= purchase time <= end, both bounds taken at
// midnight of their calendar day. A purchase made during the end day itself
// is therefore excluded unless it happened exactly at 00:00:00.
func (d *Dataset) Filter(start, end time.Time) []models.OrderLine {
	start, end = Midnight(start), Midnight(end)
	lo := sort.Search(len(d.rows), func(i int) bool {
		return !d.rows[i].PurchaseTimestamp.Before(start)
	})
	hi := sort.Search(len(d.rows), func(i int) bool {
		return d.rows[i].PurchaseTimestamp.After(end)
	})
	if lo >= hi {
		return nil
	}
	return d.rows[lo:hi]
}

// LoadOrders implements store.OrderSource.
func (d *Dataset) LoadOrders(_ context.Context, start, end time.Time) ([]models.OrderLine, error) {
	return d.Filter(start, end), nil
}

// Midnight truncates t to the start of its calendar day in its own location.
func Midnight(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
