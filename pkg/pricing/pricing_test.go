package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeKnownValues(t *testing.T) {
	cases := []struct {
		gross int64
		net   int64
		tax   int64
	}{
		{gross: 20000, net: 16807, tax: 3193},
		{gross: 16000, net: 13445, tax: 2555},
		{gross: 10000, net: 8403, tax: 1597},
		{gross: 119, net: 100, tax: 19},
		{gross: 0, net: 0, tax: 0},
		{gross: 1, net: 1, tax: 0},
	}
	for _, tc := range cases {
		got := Decompose(tc.gross)
		assert.Equal(t, Breakdown{Gross: tc.gross, Net: tc.net, Tax: tc.tax}, got, "gross %d", tc.gross)
	}
}

func TestDecomposeReconstructsGross(t *testing.T) {
	for gross := int64(0); gross <= 50000; gross += 7 {
		b := Decompose(gross)
		if b.Net+b.Tax != gross {
			t.Fatalf("gross %d: net %d + tax %d does not reconstruct", gross, b.Net, b.Tax)
		}
		if b.Tax < 0 || b.Net > gross {
			t.Fatalf("gross %d: invalid breakdown %+v", gross, b)
		}
	}
}

func TestApplyDiscountNeverExceedsGross(t *testing.T) {
	for _, gross := range []int64{0, 1, 99, 1000, 12345, 999999} {
		for percent := 0; percent <= 100; percent++ {
			discounted := ApplyDiscount(gross, percent)
			if discounted > gross || discounted < 0 {
				t.Fatalf("gross %d percent %d: discounted %d out of range", gross, percent, discounted)
			}
		}
	}
	assert.Equal(t, int64(0), ApplyDiscount(5000, 100))
	assert.Equal(t, int64(5000), ApplyDiscount(5000, 0))
}

func TestApplyDiscountRoundsHalfAwayFromZero(t *testing.T) {
	// 25 * 0.9 = 22.5
	assert.Equal(t, int64(23), ApplyDiscount(25, 10))
	// 15 * 0.7 = 10.5
	assert.Equal(t, int64(11), ApplyDiscount(15, 30))
}

func TestApplyDiscountClampsPercent(t *testing.T) {
	assert.Equal(t, int64(1000), ApplyDiscount(1000, -5))
	assert.Equal(t, int64(0), ApplyDiscount(1000, 150))
}

func TestDecomposeLineScenario(t *testing.T) {
	line := DecomposeLine(10000, 2, 20)
	require.Equal(t, Breakdown{Gross: 20000, Net: 16807, Tax: 3193}, line.Total)
	require.Equal(t, int64(16000), line.Discounted.Gross)
	require.Equal(t, line.Discounted.Gross, line.Discounted.Net+line.Discounted.Tax)
}

func TestDecomposeIsIdempotent(t *testing.T) {
	first := DecomposeLine(12990, 3, 15)
	second := DecomposeLine(12990, 3, 15)
	require.Equal(t, first, second)
}

func TestSummarize(t *testing.T) {
	lines := []Line{DecomposeLine(10000, 2, 20), DecomposeLine(5990, 1, 20)}
	s := Summarize(lines)
	require.Equal(t, int64(25990), s.Gross)
	require.Equal(t, s.Gross, s.Net+s.Tax)
	require.Equal(t, s.DiscountedGross, s.DiscountedNet+s.DiscountedTax)
	require.Equal(t, s.Gross-s.DiscountedGross, s.DiscountAmount)
	require.Equal(t, int64(16000+4792), s.DiscountedGross)
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "10000", FormatAmount(10000))
	require.Equal(t, "0", FormatAmount(0))
}
