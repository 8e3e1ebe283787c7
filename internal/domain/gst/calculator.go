// Package gst computes India's Goods and Services Tax splits.
//
// Intra-state sales split tax evenly into CGST + SGST; inter-state
// sales carry the whole tax as IGST. Amounts are decimal, rounded to
// paise, so aggregates reproduce filing-grade figures exactly.
package gst

import (
	"rxledger/internal/core/types"
)

// Split is the tax breakup for a taxable amount.
type Split struct {
	CGST types.Money `json:"cgst"`
	SGST types.Money `json:"sgst"`
	IGST types.Money `json:"igst"`
}

// Total returns cgst + sgst + igst.
func (s Split) Total() types.Money {
	return s.CGST.Add(s.SGST).Add(s.IGST)
}

// Calculator computes GST splits. Stateless and safe for concurrent use.
type Calculator struct{}

// NewCalculator creates a Calculator.
func NewCalculator() Calculator {
	return Calculator{}
}

// Split computes the CGST/SGST/IGST breakup of taxable at rate percent.
//
// Inter-state: the full tax is IGST. Intra-state: the tax is halved
// into equal CGST and SGST components. All components are rounded to
// two decimal places (paise).
func (Calculator) Split(taxable types.Money, rate types.Percent, interState bool) Split {
	tax := types.PercentOf(taxable, rate)

	if interState {
		return Split{
			CGST: types.Zero(),
			SGST: types.Zero(),
			IGST: types.RoundPaise(tax),
		}
	}

	half := types.RoundPaise(types.Half(tax))
	return Split{
		CGST: half,
		SGST: half,
		IGST: types.Zero(),
	}
}

// LineAmounts is the full money breakdown of one invoice line.
type LineAmounts struct {
	Subtotal       types.Money
	DiscountAmount types.Money
	Taxable        types.Money
	Split          Split
	Total          types.Money
}

// Line computes amounts for one cart line: quantity units at unitPrice,
// with a per-line percent discount, taxed at rate.
//
//	subtotal = unitPrice * quantity
//	discount = subtotal * discountPercent / 100
//	taxable  = subtotal - discount
//	total    = taxable + cgst + sgst + igst
func (c Calculator) Line(quantity types.Quantity, unitPrice types.Money, discountPercent types.Percent, rate types.Percent, interState bool) LineAmounts {
	subtotal := types.RoundPaise(unitPrice.Mul(quantity))
	discount := types.RoundPaise(types.PercentOf(subtotal, discountPercent))
	taxable := subtotal.Sub(discount)
	split := c.Split(taxable, rate, interState)

	return LineAmounts{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Taxable:        taxable,
		Split:          split,
		Total:          taxable.Add(split.Total()),
	}
}
