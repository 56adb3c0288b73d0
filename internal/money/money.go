// Package money converts between the decimal strings typed by organizers
// ("5,00", "1.234,56", "5.00") and the integer cent amounts stored in the
// database. Amounts never pass through floating point.
package money

import (
	"math"
	"strconv"
	"strings"
)

// CentsFromString parses a money string into cents. Either '.' or ',' may be
// the decimal separator, the other one being treated as a thousands
// separator. Blank or non-numeric input yields 0. The result is rounded to
// the nearest cent, half away from zero.
func CentsFromString(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, ok := splitDecimal(s)
	if !ok {
		return 0
	}

	whole := int64(0)
	if intPart != "" {
		n, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0
		}
		whole = n
	}

	// first two fraction digits are cents, the third one decides rounding
	frac := fracPart + "000"
	cents := int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	if frac[2] >= '5' {
		cents++
	}

	if whole > (math.MaxInt64-cents)/100 {
		return 0
	}
	total := whole*100 + cents
	if neg {
		return -total
	}
	return total
}

// StringFromCents formats cents as a two-decimal string using ',' as the
// decimal separator, e.g. 500 -> "5,00".
func StringFromCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "," + pad2(cents%100)
}

// splitDecimal decides which separator is the decimal one and returns the
// digit-only integer and fraction parts.
func splitDecimal(s string) (string, string, bool) {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	var decimalAt int
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimalAt = max(lastDot, lastComma)
	case lastComma >= 0:
		decimalAt = lastComma
	case lastDot >= 0:
		// a single dot followed by one or two digits reads as "5.00";
		// anything else ("1.000", "1.000.000") is grouping
		tail := len(s) - lastDot - 1
		if strings.Count(s, ".") == 1 && tail >= 1 && tail <= 2 {
			decimalAt = lastDot
		} else {
			decimalAt = -1
		}
	default:
		decimalAt = -1
	}

	intRaw, fracRaw := s, ""
	if decimalAt >= 0 {
		intRaw, fracRaw = s[:decimalAt], s[decimalAt+1:]
	}

	intPart := strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, intRaw)

	if intPart == "" && fracRaw == "" {
		return "", "", false
	}
	if !allDigits(intPart) || !allDigits(fracRaw) {
		return "", "", false
	}
	return intPart, fracRaw, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
