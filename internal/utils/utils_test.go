package utils

import (
	"testing"
	"time"
)

func TestMoney(t *testing.T) {
	if got := FormatSoles(15); got != "S/15.00" {
		t.Fatalf("FormatSoles(15) = %q", got)
	}
	if got := RoundCents(20 - 15.01); got != 4.99 {
		t.Fatalf("RoundCents = %v, want 4.99", got)
	}

	cases := map[string]float64{
		"20":       20,
		"20.50":    20.5,
		"20,50":    20.5,
		"S/ 20.50": 20.5,
		"s/15":     15,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", in, got, want)
		}
	}
	for _, in := range []string{"", "veinte", "S/"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) should fail", in)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  ana   torres "); got != "ANA TORRES" {
		t.Fatalf("NormalizeName = %q", got)
	}
}

func TestValidDNI(t *testing.T) {
	if !ValidDNI("45678901") {
		t.Fatal("45678901 should be valid")
	}
	for _, in := range []string{"", "1234567", "123456789", "4567890a"} {
		if ValidDNI(in) {
			t.Fatalf("ValidDNI(%q) should be false", in)
		}
	}
}

func TestValidPhone(t *testing.T) {
	for _, in := range []string{"", "987654321", "98765"} {
		if !ValidPhone(in) {
			t.Fatalf("ValidPhone(%q) should be true", in)
		}
	}
	for _, in := range []string{"9876543210", "98765432a"} {
		if ValidPhone(in) {
			t.Fatalf("ValidPhone(%q) should be false", in)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("dni: 45.678.901-x", 8); got != "45678901" {
		t.Fatalf("DigitsOnly = %q", got)
	}
	if got := DigitsOnly("123456789012", 9); got != "123456789" {
		t.Fatalf("DigitsOnly cap = %q", got)
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	when := time.Date(2026, 3, 10, 6, 30, 0, 0, time.Local)
	s := FormatSchedule(when)
	if s != "10/03/2026 06:30" {
		t.Fatalf("FormatSchedule = %q", s)
	}
	back, err := ParseSchedule(s)
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	if !back.Equal(when) {
		t.Fatalf("round trip = %v, want %v", back, when)
	}
	if got := FormatDate(when); got != "2026-03-10" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatClock(when); got != "06:30" {
		t.Fatalf("FormatClock = %q", got)
	}
}
