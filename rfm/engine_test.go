package rfm

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/api/models"
)

var base = time.Date(2018, 8, 1, 10, 30, 0, 0, time.UTC)

func line(customer, order string, ts time.Time, price float64) models.OrderLine {
	return models.OrderLine{
		OrderID:           order,
		CustomerUniqueID:  customer,
		PurchaseTimestamp: ts,
		Price:             price,
	}
}

func byID(t *testing.T, res *Result) map[string]models.CustomerRFM {
	t.Helper()
	out := make(map[string]models.CustomerRFM, len(res.Customers))
	for _, c := range res.Customers {
		_, dup := out[c.CustomerUniqueID]
		require.False(t, dup, "customer %s listed twice", c.CustomerUniqueID)
		out[c.CustomerUniqueID] = c
	}
	return out
}

func revenueOf(res *Result) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range res.SegmentRevenue {
		out[s.CustomersType] = s.Monetary
	}
	return out
}

// Four dormant one-order customers and one recent five-order big spender.
func championScenario() []models.OrderLine {
	old := base.AddDate(0, -6, 0)
	orders := []models.OrderLine{
		line("c1", "o1", old, 10),
		line("c2", "o2", old, 20),
		line("c3", "o3", old, 30),
		line("c4", "o4", old, 40),
	}
	for i := 0; i < 5; i++ {
		orders = append(orders, line("c5", fmt.Sprintf("o5-%d", i), base.AddDate(0, 0, -i), 200))
	}
	return orders
}

func TestCompute_ChampionScenario(t *testing.T) {
	res, err := Compute(championScenario())
	require.NoError(t, err)
	require.Len(t, res.Customers, 5)

	customers := byID(t, res)
	c5 := customers["c5"]
	assert.Equal(t, 1, c5.Recency)
	assert.Equal(t, 5, c5.Frequency)
	assert.InDelta(t, 1000, c5.Monetary, 1e-9)
	assert.Equal(t, 5, c5.RScore)
	assert.Equal(t, 5, c5.FScore)
	assert.Equal(t, "55", c5.RFScore)
	assert.Equal(t, Champions, c5.CustomersType)

	// Identical recency and frequency are split by customer order.
	assert.Equal(t, "41", customers["c1"].RFScore)
	assert.Equal(t, "32", customers["c2"].RFScore)
	assert.Equal(t, "23", customers["c3"].RFScore)
	assert.Equal(t, "14", customers["c4"].RFScore)
	assert.Equal(t, PotentialLoyalist, customers["c1"].CustomersType)
	assert.Equal(t, Hibernating, customers["c3"].CustomersType)
	assert.Equal(t, AtRisk, customers["c4"].CustomersType)

	revenue := revenueOf(res)
	assert.InDelta(t, 1000, revenue[Champions], 1e-9)
	assert.InDelta(t, 30, revenue[PotentialLoyalist], 1e-9)
	_, ok := revenue[Lost]
	assert.False(t, ok, "segments without customers are omitted")

	assert.Equal(t, base.Add(24*time.Hour), res.ReferenceDate)
}

func TestCompute_ExactlyFiveCustomers(t *testing.T) {
	var orders []models.OrderLine
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("c%d", i)
		for j := 0; j <= i; j++ {
			orders = append(orders, line(id, fmt.Sprintf("%s-o%d", id, j), base.AddDate(0, 0, -10*i), 5))
		}
	}

	res, err := Compute(orders)
	require.NoError(t, err)

	rSeen := map[int]int{}
	fSeen := map[int]int{}
	for _, c := range res.Customers {
		rSeen[c.RScore]++
		fSeen[c.FScore]++
	}
	for s := 1; s <= 5; s++ {
		assert.Equal(t, 1, rSeen[s], "r bucket %d", s)
		assert.Equal(t, 1, fSeen[s], "f bucket %d", s)
	}
}

func TestCompute_InsufficientCustomers(t *testing.T) {
	orders := []models.OrderLine{
		line("a", "1", base, 1),
		line("b", "2", base, 1),
		line("c", "3", base, 1),
		line("d", "4", base, 1),
		line("d", "5", base, 1),
	}
	res, err := Compute(orders)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInsufficientCustomers)
	assert.Contains(t, err.Error(), "insufficient distinct customers")

	_, err = Compute(nil)
	assert.ErrorIs(t, err, ErrInsufficientCustomers)
}

func TestCompute_InvalidTimestamp(t *testing.T) {
	orders := championScenario()
	orders[2].PurchaseTimestamp = time.Time{}

	res, err := Compute(orders)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.Contains(t, err.Error(), "o3")
}

func TestCompute_DistinctOrdersCountOnce(t *testing.T) {
	orders := championScenario()
	// a second line item of an existing order
	orders = append(orders, line("c1", "o1", base.AddDate(0, -6, 0), 15))

	res, err := Compute(orders)
	require.NoError(t, err)
	c1 := byID(t, res)["c1"]
	assert.Equal(t, 1, c1.Frequency)
	assert.InDelta(t, 25, c1.Monetary, 1e-9)
}

// Customer i has recency i+1 and a distinct frequency chosen so that the 25
// customers cover every score pair exactly once.
func allPairsScenario() []models.OrderLine {
	var orders []models.OrderLine
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("c%02d", i)
		freq := (i%5)*5 + i/5 + 1
		for k := 0; k < freq; k++ {
			orders = append(orders, line(id, fmt.Sprintf("%s-%d", id, k), base.AddDate(0, 0, -i), float64(i+k)))
		}
	}
	return orders
}

func TestCompute_AllScorePairs(t *testing.T) {
	res, err := Compute(allPairsScenario())
	require.NoError(t, err)
	require.Len(t, res.Customers, 25)

	seen := map[string]bool{}
	for _, c := range res.Customers {
		seen[c.RFScore] = true
		want, err := Classify(c.RScore, c.FScore)
		require.NoError(t, err)
		assert.Equal(t, want, c.CustomersType, c.RFScore)
		assert.Contains(t, Segments, c.CustomersType)
	}
	assert.Len(t, seen, 25)

	for i, c := range res.Customers {
		assert.Equal(t, 5-i/5, c.RScore, c.CustomerUniqueID)
		assert.Equal(t, i%5+1, c.FScore, c.CustomerUniqueID)
	}
}

func TestCompute_Invariants(t *testing.T) {
	for _, tc := range []struct {
		name   string
		orders []models.OrderLine
	}{
		{"champion", championScenario()},
		{"all pairs", allPairsScenario()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Compute(tc.orders)
			require.NoError(t, err)

			customers := map[string]bool{}
			totalPrice := 0.0
			for _, o := range tc.orders {
				customers[o.CustomerUniqueID] = true
				totalPrice += o.Price
			}
			assert.Len(t, res.Customers, len(customers))

			for _, c := range res.Customers {
				assert.GreaterOrEqual(t, c.Recency, 1)
				assert.GreaterOrEqual(t, c.Frequency, 1)
				assert.GreaterOrEqual(t, c.Monetary, 0.0)
				assert.True(t, c.RScore >= 1 && c.RScore <= 5)
				assert.True(t, c.FScore >= 1 && c.FScore <= 5)
			}

			segmentTotal := 0.0
			for _, s := range res.SegmentRevenue {
				segmentTotal += s.Monetary
			}
			assert.InDelta(t, totalPrice, segmentTotal, 1e-6)
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	orders := allPairsScenario()
	first, err := Compute(orders)
	require.NoError(t, err)

	// reversed input order must not change any assignment
	reversed := make([]models.OrderLine, len(orders))
	for i, o := range orders {
		reversed[len(orders)-1-i] = o
	}
	for _, in := range [][]models.OrderLine{orders, reversed} {
		again, err := Compute(in)
		require.NoError(t, err)
		assert.Equal(t, first.Customers, again.Customers)
	}
}

func TestDistribution(t *testing.T) {
	res, err := Compute(championScenario())
	require.NoError(t, err)

	shares := Distribution(res.Customers)
	require.Len(t, shares, 4)
	assert.Equal(t, PotentialLoyalist, shares[0].CustomersType)
	assert.Equal(t, 2, shares[0].Customers)
	assert.InDelta(t, 40, shares[0].Percent, 1e-9)

	total := 0
	for _, s := range shares {
		total += s.Customers
	}
	assert.Equal(t, 5, total)
}
