// Package pricerange extracts a numeric interval from a free-text price
// descriptor such as "500-1500" or "₺1.000,00".
package pricerange

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var tokenRe = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Range is a closed interval with Min <= Max.
type Range struct {
	Min float64
	Max float64
}

// Overlaps reports whether r intersects [lo, hi]. Use math.Inf for an
// open bound.
func (r Range) Overlaps(lo, hi float64) bool {
	return r.Min <= hi && r.Max >= lo
}

// Parse returns the interval formed by the first two numbers in s, ordered.
// A single number yields [n, n]. ok is false when s holds no number.
func Parse(s string) (Range, bool) {
	var nums []float64
	for _, tok := range tokenRe.FindAllString(s, -1) {
		n, ok := number(tok)
		if !ok {
			continue
		}
		nums = append(nums, n)
		if len(nums) == 2 {
			break
		}
	}

	switch len(nums) {
	case 0:
		return Range{}, false
	case 1:
		return Range{Min: nums[0], Max: nums[0]}, true
	}
	a, b := nums[0], nums[1]
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b}, true
}

// OpenBounds converts optional bounds into an interval for Overlaps, with a
// missing side left unbounded.
func OpenBounds(lo, hi *float64) (float64, float64) {
	l, h := math.Inf(-1), math.Inf(1)
	if lo != nil {
		l = *lo
	}
	if hi != nil {
		h = *hi
	}
	return l, h
}

// number normalizes one token. A lone separator is decimal. Repeated
// identical separators are grouping. When the earlier separators agree and
// the last one differs, the last is decimal. Anything else is discarded.
func number(tok string) (float64, bool) {
	seps := make([]int, 0, 4)
	for i := 0; i < len(tok); i++ {
		if tok[i] == '.' || tok[i] == ',' {
			seps = append(seps, i)
		}
	}

	var norm string
	switch len(seps) {
	case 0:
		norm = tok
	case 1:
		norm = strings.Replace(tok, ",", ".", 1)
	default:
		first := tok[seps[0]]
		last := tok[seps[len(seps)-1]]
		for _, i := range seps[1 : len(seps)-1] {
			if tok[i] != first {
				return 0, false
			}
		}
		if last == first {
			norm = strings.ReplaceAll(tok, string(first), "")
		} else {
			cut := seps[len(seps)-1]
			norm = strings.ReplaceAll(tok[:cut], string(first), "") + "." + tok[cut+1:]
		}
	}

	n, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
