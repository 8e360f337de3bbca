package rfm

import (
	"fmt"
	"strconv"
)

const (
	Champions         = "Champions"
	LoyalCustomers    = "Loyal customers"
	PotentialLoyalist = "Potential loyalist"
	AtRisk            = "At risk"
	Hibernating       = "Hibernating"
	Lost              = "Lost"
)

// Segments lists every label the classifier can produce.
var Segments = []string{Champions, LoyalCustomers, PotentialLoyalist, AtRisk, Hibernating, Lost}

type segmentRule struct {
	r, f    []int
	segment string
}

var segmentRules = []segmentRule{
	{r: []int{4, 5}, f: []int{4, 5}, segment: Champions},
	{r: []int{3}, f: []int{4, 5}, segment: LoyalCustomers},
	{r: []int{3, 4, 5}, f: []int{1, 2, 3}, segment: PotentialLoyalist},
	{r: []int{1, 2}, f: []int{4, 5}, segment: AtRisk},
	{r: []int{2}, f: []int{2, 3}, segment: Hibernating},
	{r: []int{1}, f: []int{1, 2, 3}, segment: Lost},
	{r: []int{2}, f: []int{1}, segment: Lost},
}

// segmentTable[r-1][f-1] is the label of score pair (r, f).
var segmentTable [quantiles][quantiles]string

func init() {
	table, err := buildSegmentTable(segmentRules)
	if err != nil {
		panic(err)
	}
	segmentTable = table
}

func buildSegmentTable(rules []segmentRule) ([quantiles][quantiles]string, error) {
	var table [quantiles][quantiles]string
	for _, rule := range rules {
		for _, r := range rule.r {
			for _, f := range rule.f {
				if prev := table[r-1][f-1]; prev != "" {
					return table, fmt.Errorf("rfm: score %d%d matches both %q and %q", r, f, prev, rule.segment)
				}
				table[r-1][f-1] = rule.segment
			}
		}
	}
	for r := 1; r <= quantiles; r++ {
		for f := 1; f <= quantiles; f++ {
			if table[r-1][f-1] == "" {
				return table, fmt.Errorf("rfm: score %d%d: %w", r, f, ErrUnmappedSegment)
			}
		}
	}
	return table, nil
}

// Classify returns the segment label of an (r, f) score pair.
func Classify(r, f int) (string, error) {
	if r < 1 || r > quantiles || f < 1 || f > quantiles {
		return "", fmt.Errorf("rfm: score %d%d: %w", r, f, ErrUnmappedSegment)
	}
	return segmentTable[r-1][f-1], nil
}

// RFScore concatenates the two score digits, e.g. (4, 5) -> "45".
func RFScore(r, f int) string {
	return strconv.Itoa(r) + strconv.Itoa(f)
}
