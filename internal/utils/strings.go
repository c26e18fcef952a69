package utils

import "strings"

// NormalizeName uppercases and collapses whitespace. Passenger names are
// stored and printed in canonical uppercase.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// ValidDNI reports whether s is exactly eight digits.
func ValidDNI(s string) bool {
	if len(s) != 8 {
		return false
	}
	return allDigits(s)
}

// ValidPhone accepts an empty phone (optional field) or up to nine digits.
func ValidPhone(s string) bool {
	if s == "" {
		return true
	}
	if len(s) > 9 {
		return false
	}
	return allDigits(s)
}

// DigitsOnly strips everything but digits, capped at max runes. Mirrors the
// input masking the sale form applies while typing.
func DigitsOnly(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() >= max {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
