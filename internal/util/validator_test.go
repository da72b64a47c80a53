package util

import (
	"strings"
	"testing"
)

func TestValidateAmount_Valid(t *testing.T) {
	testCases := []int64{0, 1, 500_000, 99_999_999_999}

	for _, amount := range testCases {
		if err := ValidateAmount(amount); err != nil {
			t.Errorf("ValidateAmount(%d) error = %v, want nil", amount, err)
		}
	}
}

func TestValidateAmount_Negative(t *testing.T) {
	testCases := []int64{-1, -100, -999_999}

	for _, amount := range testCases {
		if err := ValidateAmount(amount); err == nil {
			t.Errorf("ValidateAmount(%d) error = nil, want error", amount)
		}
	}
}

func TestValidateAmount_TooLarge(t *testing.T) {
	if err := ValidateAmount(100_000_000_000); err == nil {
		t.Error("ValidateAmount(100000000000) error = nil, want error")
	}
}

func TestParseDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateTrackingCode(t *testing.T) {
	if err := ValidateTrackingCode(""); err != nil {
		t.Errorf("empty tracking code: error = %v, want nil", err)
	}
	if err := ValidateTrackingCode("TRK-1234567890"); err != nil {
		t.Errorf("short tracking code: error = %v, want nil", err)
	}
	if err := ValidateTrackingCode(strings.Repeat("x", 101)); err == nil {
		t.Error("overlong tracking code: error = nil, want error")
	}
}
