package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a decimal amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in cents.
type Money int64

// ParseMoney converts a decimal string to cents.
//
// Both dot (251.00) and comma (251,00) separators are accepted; a third
// fractional digit rounds half-up. Negative values are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe-1 {
		return 0, ErrInvalidAmount
	}
	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			cents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				cents++
			}
		}
	}
	return Money(iv*100 + cents), nil
}

// MustParseMoney is ParseMoney for constants; it panics on malformed input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(fmt.Sprintf("domain: invalid money literal %q", s))
	}
	return m
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Times multiplies the amount by a whole factor.
func (m Money) Times(n int) Money {
	return m * Money(n)
}

// Per divides the amount by a whole count, rounding half-up to the cent.
// Dividing by zero or a negative count yields zero.
func (m Money) Per(n int) Money {
	if n <= 0 {
		return 0
	}
	d := int64(n)
	return Money((int64(m)*2 + d) / (2 * d))
}

// String formats the amount with two decimals and a dot separator.
func (m Money) String() string {
	sign := ""
	c := int64(m)
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON writes the amount as a JSON decimal number such as 251.00.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON reads a JSON number or numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return fmt.Errorf("decode money %q: %w", s, err)
	}
	*m = parsed
	return nil
}
