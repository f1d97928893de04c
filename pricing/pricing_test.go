package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteShoesGround(t *testing.T) {
	e := NewEngine(Config{})

	q, err := e.Quote(CategoryShoes, 289, MethodGround, 11.5)
	require.NoError(t, err)

	assert.InDelta(t, 12.535, q.EffectiveRate, 1e-9)
	assert.InDelta(t, 1.5, q.WeightKg, 1e-9)
	assert.InDelta(t, 3622.615, q.ItemCostRUB, 1e-6)
	assert.InDelta(t, 1200, q.DeliveryCostRUB, 1e-9)
	assert.InDelta(t, 362.2615, q.CommissionRUB, 1e-6)
	assert.Equal(t, 3985, q.TotalItemCostRUB)
	assert.Equal(t, 1200, q.DeliveryCeilRUB)
	assert.Equal(t, 5185, q.TotalCostRUB)
}

func TestQuoteApparelAir(t *testing.T) {
	e := NewEngine(Config{})

	q, err := e.Quote(CategoryApparel, 100, MethodAir, 12)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, q.WeightKg, 1e-9)
	assert.InDelta(t, 1140, q.DeliveryCostRUB, 1e-9)
	assert.Equal(t, 1140, q.DeliveryCeilRUB)
	// item = 100 * 12 * 1.09 = 1308, commission = 130.8
	assert.Equal(t, 1439, q.TotalItemCostRUB)
	assert.Equal(t, 2579, q.TotalCostRUB)
}

func TestQuoteTotalsRoundUp(t *testing.T) {
	e := NewEngine(Config{})

	q, err := e.Quote(CategoryOther, 1, MethodGround, 1)
	require.NoError(t, err)

	exactTotal := q.ItemCostRUB + q.DeliveryCostRUB + q.CommissionRUB
	exactItem := q.ItemCostRUB + q.CommissionRUB

	assert.GreaterOrEqual(t, float64(q.TotalCostRUB), exactTotal)
	assert.Less(t, float64(q.TotalCostRUB)-exactTotal, 1.0)
	assert.GreaterOrEqual(t, float64(q.TotalItemCostRUB), exactItem)
	assert.Equal(t, float64(q.TotalCostRUB), math.Ceil(exactTotal))
}

func TestQuoteRejectsBadInput(t *testing.T) {
	e := NewEngine(Config{})

	_, err := e.Quote(CategoryShoes, 0, MethodGround, 11.5)
	assert.Error(t, err)

	_, err = e.Quote(CategoryShoes, -5, MethodGround, 11.5)
	assert.Error(t, err)

	_, err = e.Quote(CategoryShoes, 289, MethodGround, 0)
	assert.Error(t, err)

	_, err = e.Quote(CategoryShoes, 289, Method("boat"), 11.5)
	assert.Error(t, err)
}

func TestQuoteUsesConfiguredConstants(t *testing.T) {
	e := NewEngine(Config{
		Markup:          1.12,
		CommissionRate:  0.10,
		WeightShoesKg:   1.5,
		WeightDefaultKg: 0.6,
		GroundRatePerKg: 789,
		AirRatePerKg:    789,
	})

	q, err := e.Quote(CategoryApparel, 100, MethodGround, 10)
	require.NoError(t, err)

	assert.InDelta(t, 11.2, q.EffectiveRate, 1e-9)
	assert.InDelta(t, 0.6*789, q.DeliveryCostRUB, 1e-9)
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"1", CategoryShoes, true},
		{" 2 ", CategoryApparel, true},
		{"3", CategoryOther, true},
		{"4", "", false},
		{"обувь", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseCategory(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
