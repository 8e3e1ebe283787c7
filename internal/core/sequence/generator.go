// Package sequence provides the domain contract for invoice numbering.
// Implementations live in the infrastructure layer.
package sequence

import (
	"context"
	"fmt"
	"time"
)

// MaxPerPeriod is the capacity of one monthly sequence: six digits,
// reset each month.
const MaxPerPeriod = 999999

// Generator allocates invoice numbers.
//
// Numbers are unique and strictly increasing within a year-month period.
// Implementations must be safe under concurrent callers: two invoices
// created at the same instant must never receive the same number.
type Generator interface {
	// Next returns the next invoice number for the period containing ts,
	// formatted as INV{YYYY}{MM}{NNNNNN}.
	//
	// Returns apperror.CodeSequenceExhausted once the period's six-digit
	// capacity is spent.
	Next(ctx context.Context, ts time.Time) (string, error)

	// Resync advances the period counter to the highest number actually
	// on file, when the counter has fallen behind it. Called after a
	// number collision: the allocation that collided rolled back with
	// its transaction, so without the realignment every retry would
	// re-allocate the same occupied number.
	Resync(ctx context.Context, ts time.Time) error
}

// Period formats the year-month prefix key for ts, e.g. "202506".
func Period(ts time.Time) string {
	return ts.Format("200601")
}

// Format renders the invoice number for a period and sequence value,
// e.g. Format("202506", 123) == "INV202506000123".
func Format(period string, n int64) string {
	return fmt.Sprintf("INV%s%06d", period, n)
}
