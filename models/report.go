package models

import "time"

type GroupRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

type CategoryPerformance struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
}

// CategorySummary carries the benchmark lines and labelled points of the
// revenue vs quantity chart.
type CategorySummary struct {
	AvgQuantity   float64               `json:"avgQuantity"`
	AvgRevenue    float64               `json:"avgRevenue"`
	TopByRevenue  []CategoryPerformance `json:"topByRevenue"`
	MaxQuantity   int                   `json:"maxQuantity"`
	CategoryCount int                   `json:"categoryCount"`
}

type RFMReport struct {
	ReferenceDate  time.Time        `json:"referenceDate"`
	Customers      []CustomerRFM    `json:"customers,omitempty"`
	Distribution   []SegmentShare   `json:"distribution"`
	SegmentRevenue []SegmentRevenue `json:"segmentRevenue"`
}

// Dashboard is everything the frontend needs to draw one date range.
type Dashboard struct {
	Range           DateRange             `json:"range"`
	Orders          int                   `json:"orders"`
	RevenueByState  []GroupRevenue        `json:"revenueByState"`
	RevenueByCity   []GroupRevenue        `json:"revenueByCity"`
	Categories      []CategoryPerformance `json:"categories"`
	CategorySummary CategorySummary       `json:"categorySummary"`
	RFM             *RFMReport            `json:"rfm"`
	RFMError        string                `json:"rfmError,omitempty"`
	GeneratedAt     time.Time             `json:"generatedAt"`
}
