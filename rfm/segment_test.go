package rfm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_EveryScorePair(t *testing.T) {
	want := map[string]string{
		"55": Champions, "54": Champions, "45": Champions, "44": Champions,
		"35": LoyalCustomers, "34": LoyalCustomers,
		"53": PotentialLoyalist, "52": PotentialLoyalist, "51": PotentialLoyalist,
		"43": PotentialLoyalist, "42": PotentialLoyalist, "41": PotentialLoyalist,
		"33": PotentialLoyalist, "32": PotentialLoyalist, "31": PotentialLoyalist,
		"25": AtRisk, "24": AtRisk, "15": AtRisk, "14": AtRisk,
		"23": Hibernating, "22": Hibernating,
		"13": Lost, "12": Lost, "11": Lost, "21": Lost,
	}
	require.Len(t, want, 25)

	for r := 1; r <= 5; r++ {
		for f := 1; f <= 5; f++ {
			code := RFScore(r, f)
			got, err := Classify(r, f)
			require.NoError(t, err, code)
			assert.Equal(t, want[code], got, code)
		}
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	for _, pair := range [][2]int{{0, 3}, {6, 1}, {3, 0}, {2, 6}} {
		_, err := Classify(pair[0], pair[1])
		assert.ErrorIs(t, err, ErrUnmappedSegment)
	}
}

func TestBuildSegmentTable_DetectsGaps(t *testing.T) {
	_, err := buildSegmentTable(segmentRules[:len(segmentRules)-1])
	assert.ErrorIs(t, err, ErrUnmappedSegment)
	assert.Contains(t, err.Error(), "21")
}

func TestBuildSegmentTable_DetectsOverlap(t *testing.T) {
	rules := append([]segmentRule{}, segmentRules...)
	rules = append(rules, segmentRule{r: []int{5}, f: []int{5}, segment: Lost})
	_, err := buildSegmentTable(rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "55")
}

func TestRFScore(t *testing.T) {
	assert.Equal(t, "45", RFScore(4, 5))
	assert.Equal(t, "11", RFScore(1, 1))
}
