package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/devrev/crmstore/internal/errors"
)

// Money is an amount in minor units (cents)
type Money struct {
	cents int64
}

// MoneyFromCents creates an amount from minor units
func MoneyFromCents(cents int64) Money {
	return Money{cents: cents}
}

// ParseMoney parses amounts such as "250", "250.5" and "-12.30"
func ParseMoney(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Money{}, errors.InvalidMoney(s, "amount cannot be empty")
	}

	negative := false
	if raw[0] == '-' || raw[0] == '+' {
		negative = raw[0] == '-'
		raw = raw[1:]
	}

	whole, frac, hasFrac := strings.Cut(raw, ".")
	if whole == "" || (hasFrac && frac == "") {
		return Money{}, errors.InvalidMoney(s, "malformed amount")
	}
	if !digits(whole) || !digits(frac) {
		return Money{}, errors.InvalidMoney(s, "malformed amount")
	}
	if len(frac) > 2 {
		return Money{}, errors.InvalidMoney(s, "at most two fractional digits are allowed")
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, errors.InvalidMoney(s, "amount overflows")
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	if units > (math.MaxInt64-cents)/100 {
		return Money{}, errors.InvalidMoney(s, "amount overflows")
	}
	total := units*100 + cents
	if negative {
		total = -total
	}
	return Money{cents: total}, nil
}

// digits reports whether s holds only ASCII digits
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParseMoney is ParseMoney for literals known to be valid
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) String() string {
	sign := ""
	c := uint64(m.cents)
	if m.cents < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// CompareMoney orders amounts numerically
func CompareMoney(a, b Money) int {
	switch {
	case a.cents < b.cents:
		return -1
	case a.cents > b.cents:
		return 1
	}
	return 0
}
