package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriod(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"mid year", time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), "202506"},
		{"january", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "202601"},
		{"december 31 23:59", time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), "202512"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Period(tt.ts))
		})
	}
}

func TestPeriod_MonthBoundary(t *testing.T) {
	// One second apart, different periods.
	before := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	after := before.Add(time.Second)

	assert.Equal(t, "202506", Period(before))
	assert.Equal(t, "202507", Period(after))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		period string
		n      int64
		want   string
	}{
		{"first of month", "202506", 1, "INV202506000001"},
		{"mid range", "202506", 123, "INV202506000123"},
		{"capacity", "202512", MaxPerPeriod, "INV202512999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.period, tt.n))
		})
	}
}

func TestFormat_FixedWidth(t *testing.T) {
	// Every number in a period's range renders to the same width, so
	// lexicographic order matches numeric order.
	for _, n := range []int64{1, 9, 10, 99999, MaxPerPeriod} {
		assert.Len(t, Format("202506", n), len("INV202506000001"))
	}
}
