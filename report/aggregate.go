// Package report derives the dashboard's aggregates from filtered order lines.
package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"salesdash/api/logger"
	"salesdash/api/metrics"
	"salesdash/api/models"
	"salesdash/api/rfm"
)

// Default group counts shown on the dashboard charts.
const (
	TopLocations  = 10
	TopCategories = 8
)

// RevenueByState sums price per customer state, highest first, keeping at most limit groups.
func RevenueByState(orders []models.OrderLine, limit int) []models.GroupRevenue {
	return revenueBy(orders, limit, func(o models.OrderLine) string { return o.CustomerState })
}

// RevenueByCity sums price per customer city, highest first, keeping at most limit groups.
func RevenueByCity(orders []models.OrderLine, limit int) []models.GroupRevenue {
	return revenueBy(orders, limit, func(o models.OrderLine) string { return o.CustomerCity })
}

func revenueBy(orders []models.OrderLine, limit int, key func(models.OrderLine) string) []models.GroupRevenue {
	sums := make(map[string]float64)
	for _, o := range orders {
		k := key(o)
		if k == "" {
			continue
		}
		sums[k] += o.Price
	}
	out := make([]models.GroupRevenue, 0, len(sums))
	for name, revenue := range sums {
		out = append(out, models.GroupRevenue{Name: name, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryPerformance returns revenue and units sold per product category,
// highest revenue first. Lines without an order item id add revenue but no quantity.
func CategoryPerformance(orders []models.OrderLine) []models.CategoryPerformance {
	byCategory := make(map[string]*models.CategoryPerformance)
	for _, o := range orders {
		if o.ProductCategory == "" {
			continue
		}
		c, ok := byCategory[o.ProductCategory]
		if !ok {
			c = &models.CategoryPerformance{Category: o.ProductCategory}
			byCategory[o.ProductCategory] = c
		}
		c.Revenue += o.Price
		if o.OrderItemID != "" {
			c.Quantity++
		}
	}
	out := make([]models.CategoryPerformance, 0, len(byCategory))
	for _, c := range byCategory {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// SummarizeCategories expects categories sorted as CategoryPerformance returns them.
func SummarizeCategories(categories []models.CategoryPerformance) models.CategorySummary {
	summary := models.CategorySummary{CategoryCount: len(categories)}
	if len(categories) == 0 {
		return summary
	}
	var quantity, revenue float64
	for _, c := range categories {
		quantity += float64(c.Quantity)
		revenue += c.Revenue
		summary.MaxQuantity = max(summary.MaxQuantity, c.Quantity)
	}
	summary.AvgQuantity = quantity / float64(len(categories))
	summary.AvgRevenue = revenue / float64(len(categories))

	top := min(TopCategories, len(categories))
	summary.TopByRevenue = append([]models.CategoryPerformance(nil), categories[:top]...)
	return summary
}

// SortSegmentRevenue orders segments by revenue, highest first.
func SortSegmentRevenue(segments []models.SegmentRevenue) []models.SegmentRevenue {
	out := append([]models.SegmentRevenue(nil), segments...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Monetary != out[j].Monetary {
			return out[i].Monetary > out[j].Monetary
		}
		return out[i].CustomersType < out[j].CustomersType
	})
	return out
}

// RFM runs the segmentation engine and shapes its output for the charts.
// Per-customer rows are included only when withCustomers is set.
func RFM(orders []models.OrderLine, withCustomers bool) (*models.RFMReport, error) {
	started := time.Now()
	res, err := rfm.Compute(orders)
	metrics.RFMComputeDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, err
	}
	out := &models.RFMReport{
		ReferenceDate:  res.ReferenceDate,
		Distribution:   rfm.Distribution(res.Customers),
		SegmentRevenue: SortSegmentRevenue(res.SegmentRevenue),
	}
	if withCustomers {
		out.Customers = res.Customers
	}
	return out, nil
}

// Build assembles the dashboard for orders already filtered to r.
// Too few customers for segmentation leaves the RFM section empty with an
// explanation instead of failing the whole dashboard.
func Build(orders []models.OrderLine, r models.DateRange) (*models.Dashboard, error) {
	categories := CategoryPerformance(orders)
	dash := &models.Dashboard{
		Range:           r,
		Orders:          countOrders(orders),
		RevenueByState:  RevenueByState(orders, TopLocations),
		RevenueByCity:   RevenueByCity(orders, TopLocations),
		Categories:      categories,
		CategorySummary: SummarizeCategories(categories),
		GeneratedAt:     time.Now().UTC(),
	}

	rfmReport, err := RFM(orders, false)
	switch {
	case errors.Is(err, rfm.ErrInsufficientCustomers):
		logger.Warn("RFM segmentation skipped", zap.Error(err), zap.Int("lines", len(orders)))
		dash.RFMError = err.Error()
	case err != nil:
		return nil, fmt.Errorf("rfm: %w", err)
	default:
		dash.RFM = rfmReport
	}
	return dash, nil
}

func countOrders(orders []models.OrderLine) int {
	seen := make(map[string]struct{})
	for _, o := range orders {
		seen[o.OrderID] = struct{}{}
	}
	return len(seen)
}
