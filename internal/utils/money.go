package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatSoles renders an amount the way receipts and manifests print it.
func FormatSoles(amount float64) string {
	return fmt.Sprintf("S/%.2f", amount)
}

// RoundCents keeps change computations on two decimals. float64 is what the
// wire carries; rounding here avoids 4.999999 showing up as change.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ParseAmount parses operator input like "20", "20.50" or "S/ 20.50".
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToUpper(s), "S/")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("invalid amount")
	}
	return strconv.ParseFloat(s, 64)
}
