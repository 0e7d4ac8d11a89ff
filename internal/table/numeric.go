package table

import (
	"math"
	"strconv"
	"strings"
)

// NumberFormat describes locale separators. Zero values auto-detect.
type NumberFormat struct {
	Decimal   rune
	Thousands rune
}

// ParseNumber coerces a cell to a float. Percent signs and non-breaking
// spaces are ignored. With no explicit decimal separator, the right-most of
// ',' and '.' is taken as decimal. NaN and infinities are rejected.
func ParseNumber(s string, nf NumberFormat) (float64, bool) {
	raw := strings.ReplaceAll(s, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec, thou := nf.Decimal, nf.Thousands
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec, thou = ',', '.'
		case cpos >= 0 && dpos >= 0:
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
