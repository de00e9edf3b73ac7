// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (kobo for NGN). It renders in JSON as a
// decimal number with two fractional digits and accepts numbers or numeric
// strings on input.
type Money int64

// ErrMoneyOutOfRange is returned for amounts whose kobo value does not fit
// in an int64.
var ErrMoneyOutOfRange = errors.New("amount out of range")

var (
	maxKobo = decimal.NewFromInt(math.MaxInt64)
	minKobo = decimal.NewFromInt(math.MinInt64)
)

// NewMoney converts a major-unit decimal, rounding half away from zero.
func NewMoney(d decimal.Decimal) (Money, error) {
	kobo := d.Shift(2).Round(0)
	if kobo.GreaterThan(maxKobo) || kobo.LessThan(minKobo) {
		return 0, ErrMoneyOutOfRange
	}
	return Money(kobo.IntPart()), nil
}

// ParseMoney parses a major-unit string such as "1500.75".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	m, err := NewMoney(d)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return m, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Kobo returns the raw minor-unit value.
func (m Money) Kobo() int64 { return int64(m) }

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Value stores the minor-unit integer.
func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) == 0 {
		*m = 0
		return nil
	}
	data = bytes.Trim(data, `"`)
	parsed, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
