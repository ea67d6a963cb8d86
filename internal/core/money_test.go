package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"1250", 1250},
		{"12,50", 1250},
		{"12.50", 1250},
		{"R$ 12,50", 1250},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"  ", 0},
		{"1", 1},
		{"007", 7},
		{"1.5", 15},
	}
	for _, tc := range cases {
		if got := ParseMoney(tc.in).Cents; got != tc.out {
			t.Fatalf("ParseMoney(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestParseMoneyNeverNegative(t *testing.T) {
	for _, in := range []string{"-100", "-1,00", "99999999999999999999999999"} {
		if got := ParseMoney(in).Cents; got < 0 {
			t.Fatalf("ParseMoney(%q) = %d, want non-negative", in, got)
		}
	}
}

func TestMoneyDisplay(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{0, "0,00"},
		{1, "0,01"},
		{150, "1,50"},
		{1250, "12,50"},
		{100000, "1000,00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Display(); got != tc.out {
			t.Fatalf("Display(%d) = %q, want %q", tc.cents, got, tc.out)
		}
	}
}

// Normalization is idempotent: once an input has been reduced to cents,
// formatting and reparsing it cannot change the value.
func TestMoneyRoundTrip(t *testing.T) {
	for _, in := range []string{"1250", "R$ 1,99", "0,05", "abc", "", "7"} {
		first := ParseMoney(in)
		second := ParseMoney(first.Display())
		if first != second {
			t.Fatalf("round trip of %q: %d != %d", in, first.Cents, second.Cents)
		}
		third := ParseMoney(second.Display())
		if second != third {
			t.Fatalf("second round trip of %q changed value", in)
		}
	}
}

func TestMoneyFromUnits(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{12.5, 1250},
		{0, 0},
		// 0.125 is exactly representable, so 0.125*100 is exactly 12.5 and
		// the half-up rounding is observable.
		{0.125, 13},
		{2.75, 275},
		{-3, 0},
	}
	for _, tc := range cases {
		if got := MoneyFromUnits(tc.in).Cents; got != tc.out {
			t.Fatalf("MoneyFromUnits(%v) = %d, want %d", tc.in, got, tc.out)
		}
	}
}
