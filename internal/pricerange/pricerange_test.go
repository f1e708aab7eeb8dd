package pricerange

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Range
		ok   bool
	}{
		{"500-1500", Range{500, 1500}, true},
		{"₺1.000,00", Range{1000, 1000}, true},
		{"abc", Range{}, false},
		{"", Range{}, false},
		{"2000-500", Range{500, 2000}, true},
		{"1200", Range{1200, 1200}, true},
		{"1,5 - 2,5 bin", Range{1.5, 2.5}, true},
		{"1.000.000 TL", Range{1000000, 1000000}, true},
		{"10.000,50 ile 20.000,75 arası", Range{10000.5, 20000.75}, true},
		{"100 / 200 / 300", Range{100, 200}, true},
		{"1.000,00.5 or 40", Range{40, 40}, true},
		{"kişi başı 750₺", Range{750, 750}, true},
		// a single separator is always the decimal point
		{"1,000 TL", Range{1, 1}, true},
		{"2.500", Range{2.5, 2.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
		})
	}
}

func TestOverlaps(t *testing.T) {
	r := Range{Min: 1000, Max: 2000}

	lo, hi := OpenBounds(ptr(2500), nil)
	assert.False(t, r.Overlaps(lo, hi))

	lo, hi = OpenBounds(ptr(1800), nil)
	assert.True(t, r.Overlaps(lo, hi))

	lo, hi = OpenBounds(nil, ptr(1000))
	assert.True(t, r.Overlaps(lo, hi), "touching bounds overlap")

	lo, hi = OpenBounds(nil, ptr(999))
	assert.False(t, r.Overlaps(lo, hi))

	lo, hi = OpenBounds(nil, nil)
	assert.True(t, math.IsInf(lo, -1))
	assert.True(t, r.Overlaps(lo, hi))
}

func ptr(f float64) *float64 { return &f }
