package models

// CustomerRFM holds the recency/frequency/monetary metrics and scores of one customer.
type CustomerRFM struct {
	CustomerUniqueID string  `json:"customerUniqueId"`
	Recency          int     `json:"recency"`
	Frequency        int     `json:"frequency"`
	Monetary         float64 `json:"monetary"`
	RScore           int     `json:"rScore"`
	FScore           int     `json:"fScore"`
	RFScore          string  `json:"rfScore"`
	CustomersType    string  `json:"customersType"`
}

// SegmentRevenue is the summed monetary value of every customer in a segment.
type SegmentRevenue struct {
	CustomersType string  `json:"customersType"`
	Monetary      float64 `json:"monetary"`
}

// SegmentShare is the customer count of a segment and its share of all customers.
type SegmentShare struct {
	CustomersType string  `json:"customersType"`
	Customers     int     `json:"customers"`
	Percent       float64 `json:"percent"`
}
