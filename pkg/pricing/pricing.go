// Package pricing decomposes tax-inclusive prices into net and tax parts for display.
//
// Every amount is an integer number of currency units. Rounding is half away from zero
// at every step, which for the non-negative amounts handled here matches the order
// platform's own rounding. Totals derive tax from the rounded net so Net+Tax always
// equals Gross.
package pricing

import "github.com/shopspring/decimal"

// TaxRate is the value-added tax percentage included in catalog prices.
const TaxRate = 19

var (
	hundred    = decimal.NewFromInt(100)
	taxDivisor = decimal.NewFromInt(100 + TaxRate).Div(hundred)
)

// Breakdown splits a tax-inclusive amount.
type Breakdown struct {
	Gross int64 `json:"gross"`
	Net   int64 `json:"net"`
	Tax   int64 `json:"tax"`
}

// Line is the display breakdown of one cart line before and after the discount.
type Line struct {
	UnitPrice       int64     `json:"unitPrice"`
	Quantity        int       `json:"quantity"`
	DiscountPercent int       `json:"discountPercent"`
	Total           Breakdown `json:"total"`
	Discounted      Breakdown `json:"discounted"`
}

// Summary adds up line breakdowns.
type Summary struct {
	Gross           int64 `json:"gross"`
	Net             int64 `json:"net"`
	Tax             int64 `json:"tax"`
	DiscountedGross int64 `json:"discountedGross"`
	DiscountedNet   int64 `json:"discountedNet"`
	DiscountedTax   int64 `json:"discountedTax"`
	DiscountAmount  int64 `json:"discountAmount"`
}

// Decompose returns net = round(gross / 1.19) and tax = gross - net.
func Decompose(gross int64) Breakdown {
	net := decimal.NewFromInt(gross).Div(taxDivisor).Round(0).IntPart()
	return Breakdown{Gross: gross, Net: net, Tax: gross - net}
}

// ApplyDiscount returns round(gross * (100 - percent) / 100) with percent clamped to [0,100].
func ApplyDiscount(gross int64, percent int) int64 {
	percent = clampPercent(percent)
	factor := decimal.NewFromInt(int64(100 - percent)).Div(hundred)
	return decimal.NewFromInt(gross).Mul(factor).Round(0).IntPart()
}

// DecomposeLine prices quantity units at unitPrice with and without the discount.
// unitPrice*quantity must fit in int64; checkout.ValidateLines bounds both factors.
func DecomposeLine(unitPrice int64, quantity int, percent int) Line {
	gross := unitPrice * int64(quantity)
	return Line{
		UnitPrice:       unitPrice,
		Quantity:        quantity,
		DiscountPercent: clampPercent(percent),
		Total:           Decompose(gross),
		Discounted:      Decompose(ApplyDiscount(gross, percent)),
	}
}

// Summarize adds up the given lines. DiscountAmount is a local display figure and may
// differ from the discount the order platform computes from the percentage.
func Summarize(lines []Line) Summary {
	var s Summary
	for _, l := range lines {
		s.Gross += l.Total.Gross
		s.Net += l.Total.Net
		s.Tax += l.Total.Tax
		s.DiscountedGross += l.Discounted.Gross
		s.DiscountedNet += l.Discounted.Net
		s.DiscountedTax += l.Discounted.Tax
	}
	s.DiscountAmount = s.Gross - s.DiscountedGross
	return s
}

// FormatAmount renders an integer amount as the decimal string the order platform expects.
func FormatAmount(amount int64) string {
	return decimal.NewFromInt(amount).String()
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
