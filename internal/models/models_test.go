// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestMoneyJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{`57500`, 5750000},
		{`"1500.75"`, 150075},
		{`0.005`, 1},
		{`null`, 0},
		{`-20.1`, -2010},
	}
	for _, tt := range tests {
		var m Money
		if err := json.Unmarshal([]byte(tt.in), &m); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
		}
		if m != tt.want {
			t.Errorf("Unmarshal(%s) = %d, want %d", tt.in, m, tt.want)
		}
	}

	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Amount: 5750000})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"amount":57500.00}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestMoneyRejectsGarbage(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"ten naira"`), &m); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseMoneyRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"92233720368547758.07", math.MaxInt64, false},
		{"-92233720368547758.08", math.MinInt64, false},
		{"92233720368547758.08", 0, true},
		{"184467440737095516.17", 0, true},
		{"-92233720368547758.09", 0, true},
		{"1e20", 0, true},
		{"0.004", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMoneyOutOfRange) {
					t.Fatalf("ParseMoney(%s) = %d, %v, want ErrMoneyOutOfRange", tt.in, got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMoney(%s) = %d, %v, want %d", tt.in, got, err, tt.want)
			}
		})
	}

	var m Money
	if err := json.Unmarshal([]byte(`184467440737095516.17`), &m); err == nil {
		t.Errorf("Unmarshal of overflowing amount = %d, want error", m)
	}
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	out, err := json.Marshal(Merchant{Email: "a@b.c", PasswordHash: "$2a$12$secret"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "secret") {
		t.Errorf("password hash leaked: %s", out)
	}
}

func TestStringListScanValue(t *testing.T) {
	v, err := StringList{"view_plans", "create_plan"}.Value()
	if err != nil {
		t.Fatal(err)
	}
	var l StringList
	if err := l.Scan(v); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(l) != 2 || !l.Contains("create_plan") {
		t.Errorf("Scan() = %v", l)
	}

	var empty StringList
	if err := empty.Scan(nil); err != nil || len(empty) != 0 {
		t.Errorf("Scan(nil) = %v, %v", empty, err)
	}
	if err := empty.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestJSONMapScan(t *testing.T) {
	var m JSONMap
	if err := m.Scan([]byte(`{"ip":"127.0.0.1"}`)); err != nil {
		t.Fatal(err)
	}
	if m["ip"] != "127.0.0.1" {
		t.Errorf("m = %v", m)
	}
}

func TestEnumValidators(t *testing.T) {
	if !ValidMerchantStatus("Active") || ValidMerchantStatus("active") {
		t.Error("merchant status is case sensitive Active/Inactive")
	}
	if !ValidCollectionType("Loan Repayment") || ValidCollectionType("Loan") {
		t.Error("collection type")
	}
	if !ValidTicketStatus(TicketResolved) || ValidTicketStatus("done") {
		t.Error("ticket status")
	}
}
