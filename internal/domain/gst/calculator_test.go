package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rxledger/internal/core/types"
)

func TestSplit_IntraState(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name     string
		taxable  string
		rate     string
		wantCGST string
		wantSGST string
	}{
		{"standard 12 percent", "500", "12", "30", "30"},
		{"5 percent on 100", "100", "5", "2.5", "2.5"},
		{"18 percent on 999.99", "999.99", "18", "90", "90"},
		{"zero rate", "500", "0", "0", "0"},
		{"zero taxable", "0", "12", "0", "0"},
		{"odd paise split", "100.01", "18", "9", "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := calc.Split(types.MustMoney(tt.taxable), types.MustMoney(tt.rate), false)

			assert.True(t, split.CGST.Equal(types.MustMoney(tt.wantCGST)),
				"cgst = %s, want %s", split.CGST, tt.wantCGST)
			assert.True(t, split.SGST.Equal(types.MustMoney(tt.wantSGST)),
				"sgst = %s, want %s", split.SGST, tt.wantSGST)
			assert.True(t, split.IGST.IsZero(), "igst must be zero intra-state")
			assert.True(t, split.CGST.Equal(split.SGST), "cgst and sgst must be equal")
		})
	}
}

func TestSplit_InterState(t *testing.T) {
	calc := NewCalculator()

	split := calc.Split(types.MustMoney("500"), types.MustMoney("12"), true)

	assert.True(t, split.IGST.Equal(types.MustMoney("60")), "igst = %s", split.IGST)
	assert.True(t, split.CGST.IsZero())
	assert.True(t, split.SGST.IsZero())
	assert.True(t, split.Total().Equal(types.MustMoney("60")))
}

func TestSplit_ComponentsSumToTax(t *testing.T) {
	calc := NewCalculator()
	tolerance := types.MustMoney("0.01")

	cases := []struct{ taxable, rate string }{
		{"123.45", "12"},
		{"999.99", "18"},
		{"1", "5"},
		{"33.33", "28"},
	}

	for _, tc := range cases {
		tax := types.RoundPaise(types.PercentOf(types.MustMoney(tc.taxable), types.MustMoney(tc.rate)))

		for _, interState := range []bool{true, false} {
			split := calc.Split(types.MustMoney(tc.taxable), types.MustMoney(tc.rate), interState)
			diff := split.Total().Sub(tax).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"taxable=%s rate=%s interState=%v: components sum %s, tax %s",
				tc.taxable, tc.rate, interState, split.Total(), tax)
		}
	}
}

func TestLine(t *testing.T) {
	calc := NewCalculator()

	// 5 units at MRP 100, no discount, 12% GST, intra-state.
	line := calc.Line(
		types.MustMoney("5"),
		types.MustMoney("100"),
		types.Zero(),
		types.MustMoney("12"),
		false,
	)

	assert.True(t, line.Subtotal.Equal(types.MustMoney("500")), "subtotal = %s", line.Subtotal)
	assert.True(t, line.DiscountAmount.IsZero())
	assert.True(t, line.Taxable.Equal(types.MustMoney("500")))
	assert.True(t, line.Split.CGST.Equal(types.MustMoney("30")), "cgst = %s", line.Split.CGST)
	assert.True(t, line.Split.SGST.Equal(types.MustMoney("30")), "sgst = %s", line.Split.SGST)
	assert.True(t, line.Split.IGST.IsZero())
	assert.True(t, line.Total.Equal(types.MustMoney("560")), "total = %s", line.Total)
}

func TestLine_WithDiscount(t *testing.T) {
	calc := NewCalculator()

	// 2 units at 150, 10% line discount, 18% GST, inter-state.
	line := calc.Line(
		types.MustMoney("2"),
		types.MustMoney("150"),
		types.MustMoney("10"),
		types.MustMoney("18"),
		true,
	)

	assert.True(t, line.Subtotal.Equal(types.MustMoney("300")))
	assert.True(t, line.DiscountAmount.Equal(types.MustMoney("30")))
	assert.True(t, line.Taxable.Equal(types.MustMoney("270")))
	assert.True(t, line.Split.IGST.Equal(types.MustMoney("48.6")), "igst = %s", line.Split.IGST)
	assert.True(t, line.Total.Equal(types.MustMoney("318.6")), "total = %s", line.Total)
}

func TestLine_FractionalQuantity(t *testing.T) {
	calc := NewCalculator()

	// Loose tablets: 0.5 strip at 90.
	line := calc.Line(
		types.MustMoney("0.5"),
		types.MustMoney("90"),
		types.Zero(),
		types.MustMoney("5"),
		false,
	)

	assert.True(t, line.Subtotal.Equal(types.MustMoney("45")))
	assert.True(t, line.Split.CGST.Equal(types.MustMoney("1.13")), "cgst = %s", line.Split.CGST)
	assert.True(t, line.Split.SGST.Equal(types.MustMoney("1.13")))
	assert.True(t, line.Total.Equal(types.MustMoney("47.26")), "total = %s", line.Total)
}
