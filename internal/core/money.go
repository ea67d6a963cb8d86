// Package core provides the domain types of the price survey: monetary
// values, product records and daily collections.
//
// This file contains money parsing and formatting. Amounts travel through
// the system as integer cents; floats only appear at the storage boundary.
package core

import (
	"fmt"
	"math"
	"strconv"
)

// ParseMoney converts free-form numeric input into Money. Every non-digit
// byte is stripped and the remaining digit string is read as cents, so
// "R$ 12,50", "12.50" and "1250" all mean 12 units and 50 cents. Input
// without digits yields zero. The result is always non-negative; parsing
// never fails.
func ParseMoney(raw string) Money {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) == 0 {
		return Money{}
	}
	cents, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		// Only reachable when the digit string overflows int64.
		return Money{}
	}
	return Money{Cents: cents}
}

// MoneyFromUnits converts a decimal unit value (e.g. 12.5) into Money with
// half-up rounding to the nearest cent.
func MoneyFromUnits(v float64) Money {
	if v < 0 {
		return Money{}
	}
	return Money{Cents: int64(math.Round(v * 100))}
}

// Units returns the amount as a decimal unit value (cents / 100).
// Use cents for calculations; this is for the storage wire format.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Display renders the amount with two fraction digits and a comma decimal
// separator: 1250 cents -> "12,50", zero -> "0,00".
func (m Money) Display() string {
	cents := m.Cents
	if cents < 0 {
		cents = 0
	}
	return fmt.Sprintf("%d,%02d", cents/100, cents%100)
}
