package dataset

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `order_id,customer_unique_id,order_item_id,order_purchase_timestamp,order_delivered_customer_date,price,customer_city,customer_state,product_category_name_english
o3,c2,1,2018-01-03 09:00:00,2018-01-10 12:00:00,30.5,rio de janeiro,RJ,toys
o1,c1,1,2018-01-01 00:00:00,,10,sao paulo,SP,bed_bath_table
o2,c1,1,2018-01-02 23:59:59,2018-01-09 08:00:00,20,sao paulo,SP,toys
o2,c1,2,2018-01-02 23:59:59,2018-01-09 08:00:00,5,sao paulo,SP,toys
`

func mustParse(t *testing.T, csv string) *Dataset {
	t.Helper()
	ds, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	return ds
}

func TestParse_SortsByPurchaseTime(t *testing.T) {
	ds := mustParse(t, sample)
	require.Equal(t, 4, ds.Len())

	rows := ds.Rows()
	assert.Equal(t, "o1", rows[0].OrderID)
	assert.Equal(t, "o3", rows[3].OrderID)
	assert.Nil(t, rows[0].DeliveredAt)
	require.NotNil(t, rows[3].DeliveredAt)
	assert.Equal(t, time.Date(2018, 1, 10, 12, 0, 0, 0, time.UTC), *rows[3].DeliveredAt)
	assert.Equal(t, "RJ", rows[3].CustomerState)
	assert.Equal(t, "toys", rows[3].ProductCategory)
	assert.InDelta(t, 30.5, rows[3].Price, 1e-9)

	// equal timestamps keep file order
	assert.Equal(t, "1", rows[1].OrderItemID)
	assert.Equal(t, "2", rows[2].OrderItemID)
}

func TestParse_OnlyRequiredColumns(t *testing.T) {
	ds := mustParse(t, "customer_unique_id,order_id,order_purchase_timestamp,price\nc1,o1,2018-05-01,3\n")
	row := ds.Rows()[0]
	assert.Equal(t, "", row.CustomerCity)
	assert.Equal(t, time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC), row.PurchaseTimestamp)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{"empty", "", "no rows"},
		{"header only", "customer_unique_id,order_id,order_purchase_timestamp,price\n", "no rows"},
		{"missing column", "customer_unique_id,order_id,price\nc1,o1,3\n", `"order_purchase_timestamp"`},
		{"bad timestamp", "customer_unique_id,order_id,order_purchase_timestamp,price\nc1,o1,yesterday,3\n", "line 2"},
		{"missing timestamp", "customer_unique_id,order_id,order_purchase_timestamp,price\nc1,o1,,3\n", "empty timestamp"},
		{"negative price", "customer_unique_id,order_id,order_purchase_timestamp,price\nc1,o1,2018-05-01,-3\n", "non-negative"},
		{"nan price", "customer_unique_id,order_id,order_purchase_timestamp,price\nc1,o1,2018-05-01,NaN\n", "finite"},
		{"empty customer", "customer_unique_id,order_id,order_purchase_timestamp,price\n,o1,2018-05-01,3\n", "empty customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBounds(t *testing.T) {
	ds := mustParse(t, sample)
	lo, hi, err := ds.Bounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), lo)
	assert.Equal(t, time.Date(2018, 1, 3, 9, 0, 0, 0, time.UTC), hi)

	_, _, err = New(nil).Bounds(context.Background())
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestFilter_BoundsAtMidnight(t *testing.T) {
	ds := mustParse(t, sample)
	day := func(d int) time.Time { return time.Date(2018, 1, d, 15, 0, 0, 0, time.UTC) }

	// The end day is compared at 00:00:00, so purchases later that day are out.
	got := ds.Filter(day(1), day(2))
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].OrderID)

	got = ds.Filter(day(1), day(3))
	assert.Len(t, got, 3)

	got = ds.Filter(day(2), day(4))
	assert.Len(t, got, 3)

	assert.Empty(t, ds.Filter(day(5), day(9)))
	assert.Empty(t, ds.Filter(day(3), day(1)))
}

func TestLoadOrders(t *testing.T) {
	ds := mustParse(t, sample)
	got, err := ds.LoadOrders(context.Background(), time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2018, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("does/not/exist.csv")
	assert.Error(t, err)
}
