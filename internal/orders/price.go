package orders

import (
	"strconv"
	"strings"
)

// PriceValue parses a stored currency string ("₹1,234.56", "1799") by keeping
// only digits, the decimal point and a leading sign. Anything unparsable
// reads as 0 so a bad price never breaks an order view.
func PriceValue(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || (r == '-' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
