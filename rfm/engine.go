// Package rfm scores customers by recency, frequency and monetary value and
// groups them into behavioural segments.
package rfm

import (
	"fmt"
	"sort"
	"time"

	"salesdash/api/models"
)

const day = 24 * time.Hour

// Result is the scored customer table and the revenue of each segment.
type Result struct {
	ReferenceDate  time.Time
	Customers      []models.CustomerRFM
	SegmentRevenue []models.SegmentRevenue
}

type customerAgg struct {
	id       string
	last     time.Time
	orders   map[string]struct{}
	monetary float64
}

// Compute scores every customer found in orders. The reference date is one
// day after the latest purchase, so every recency is at least 1.
// Customers are returned sorted by id; segment revenue order is unspecified.
func Compute(orders []models.OrderLine) (*Result, error) {
	var maxTS time.Time
	byCustomer := make(map[string]*customerAgg)
	for _, o := range orders {
		if o.PurchaseTimestamp.IsZero() {
			return nil, fmt.Errorf("order %q: %w", o.OrderID, ErrInvalidTimestamp)
		}
		if o.PurchaseTimestamp.After(maxTS) {
			maxTS = o.PurchaseTimestamp
		}
		agg, ok := byCustomer[o.CustomerUniqueID]
		if !ok {
			agg = &customerAgg{id: o.CustomerUniqueID, orders: make(map[string]struct{})}
			byCustomer[o.CustomerUniqueID] = agg
		}
		if o.PurchaseTimestamp.After(agg.last) {
			agg.last = o.PurchaseTimestamp
		}
		agg.orders[o.OrderID] = struct{}{}
		agg.monetary += o.Price
	}
	if len(byCustomer) < quantiles {
		return nil, fmt.Errorf("%d customers, need %d: %w", len(byCustomer), quantiles, ErrInsufficientCustomers)
	}

	aggs := make([]*customerAgg, 0, len(byCustomer))
	for _, agg := range byCustomer {
		aggs = append(aggs, agg)
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].id < aggs[j].id })

	refDate := maxTS.Add(day)
	customers := make([]models.CustomerRFM, len(aggs))
	recency := make([]float64, len(aggs))
	frequency := make([]float64, len(aggs))
	for i, agg := range aggs {
		c := models.CustomerRFM{
			CustomerUniqueID: agg.id,
			Recency:          int(refDate.Sub(agg.last) / day),
			Frequency:        len(agg.orders),
			Monetary:         agg.monetary,
		}
		customers[i] = c
		recency[i] = float64(c.Recency)
		frequency[i] = float64(c.Frequency)
	}

	rBuckets := cutByValue(recency)
	fBuckets := cutByRank(frequency)

	revenue := make(map[string]float64)
	for i := range customers {
		c := &customers[i]
		c.RScore = quantiles - rBuckets[i]
		c.FScore = fBuckets[i] + 1
		c.RFScore = RFScore(c.RScore, c.FScore)
		segment, err := Classify(c.RScore, c.FScore)
		if err != nil {
			return nil, fmt.Errorf("customer %q: %w", c.CustomerUniqueID, err)
		}
		c.CustomersType = segment
		revenue[segment] += c.Monetary
	}

	segmentRevenue := make([]models.SegmentRevenue, 0, len(revenue))
	for segment, monetary := range revenue {
		segmentRevenue = append(segmentRevenue, models.SegmentRevenue{CustomersType: segment, Monetary: monetary})
	}

	return &Result{
		ReferenceDate:  refDate,
		Customers:      customers,
		SegmentRevenue: segmentRevenue,
	}, nil
}

// Distribution counts customers per segment, largest segment first.
func Distribution(customers []models.CustomerRFM) []models.SegmentShare {
	counts := make(map[string]int)
	for _, c := range customers {
		counts[c.CustomersType]++
	}
	shares := make([]models.SegmentShare, 0, len(counts))
	for segment, n := range counts {
		shares = append(shares, models.SegmentShare{
			CustomersType: segment,
			Customers:     n,
			Percent:       float64(n) * 100 / float64(len(customers)),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Customers != shares[j].Customers {
			return shares[i].Customers > shares[j].Customers
		}
		return shares[i].CustomersType < shares[j].CustomersType
	})
	return shares
}
