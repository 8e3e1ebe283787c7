package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		pct    string
		want   string
	}{
		{"12 percent of 500", "500", "12", "60"},
		{"5 percent of 100", "100", "5", "5"},
		{"zero percent", "500", "0", "0"},
		{"zero amount", "0", "18", "0"},
		{"fractional result", "100.01", "18", "18.0018"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOf(MustMoney(tt.amount), MustMoney(tt.pct))
			assert.True(t, got.Equal(MustMoney(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestPercentOf_NoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style values stay exact under decimal arithmetic.
	got := PercentOf(MustMoney("0.3"), MustMoney("10"))
	assert.True(t, got.Equal(MustMoney("0.03")), "got %s", got)
}

func TestHalf(t *testing.T) {
	// Half does not round; the caller rounds once, at the end.
	got := Half(MustMoney("0.01"))
	assert.True(t, got.Equal(MustMoney("0.005")), "got %s", got)

	assert.True(t, Half(MustMoney("60")).Equal(MustMoney("30")))
}

func TestRoundPaise(t *testing.T) {
	tests := []struct {
		name string
		v    string
		want string
	}{
		{"already rounded", "10.50", "10.50"},
		{"round half up", "10.005", "10.01"},
		{"round down", "10.004", "10.00"},
		{"negative", "-10.005", "-10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundPaise(MustMoney(tt.v))
			assert.True(t, got.Equal(MustMoney(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestMustMoney_PanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { MustMoney("not a number") })
}
