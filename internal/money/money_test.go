package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsFromString(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"   ", 0},
		{"5", 500},
		{"5,00", 500},
		{"5.00", 500},
		{" 5,00 ", 500},
		{"5,5", 550},
		{"5.5", 550},
		{",75", 75},
		{"10,", 1000},
		{"1.234,56", 123456},
		{"1,234.56", 123456},
		{"1.000", 100000},
		{"1.000.000", 100000000},
		{"5,005", 501},
		{"5,004", 500},
		{"5,999", 600},
		{"-2,50", -250},
		{"abc", 0},
		{"5,0x", 0},
		{",", 0},
		{"1e3", 0},
		{"99999999999999999999", 0},
		{"92233720368547758,07", math.MaxInt64},
		{"92233720368547758,08", 0},
		{"92233720368547757,999", 9223372036854775800},
		{"92233720368547758,999", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, CentsFromString(tc.in))
		})
	}
}

func TestStringFromCents(t *testing.T) {
	assert.Equal(t, "5,00", StringFromCents(500))
	assert.Equal(t, "0,00", StringFromCents(0))
	assert.Equal(t, "0,07", StringFromCents(7))
	assert.Equal(t, "1234,56", StringFromCents(123456))
	assert.Equal(t, "-2,50", StringFromCents(-250))
}

func TestRoundTrip(t *testing.T) {
	for c := int64(0); c <= 20000; c++ {
		s := StringFromCents(c)
		if got := CentsFromString(s); got != c {
			t.Fatalf("round trip of %d via %q gave %d", c, s, got)
		}
	}
	for _, c := range []int64{99999, 100000, 123456789, 9_000_000_000, math.MaxInt64 - 7, math.MaxInt64 - 1, math.MaxInt64} {
		assert.Equal(t, c, CentsFromString(StringFromCents(c)))
	}
}
