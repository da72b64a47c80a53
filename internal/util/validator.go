package util

import (
	"fmt"
	"time"
)

// ValidateAmount checks an amount in Toman: non-negative, below the entry
// cap used by the bulk import.
func ValidateAmount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %d", amount)
	}
	if amount >= 100_000_000_000 {
		return fmt.Errorf("amount too large, got %d", amount)
	}
	return nil
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateTrackingCode checks a bank tracking code: optional, but bounded.
func ValidateTrackingCode(code string) error {
	if len(code) > 100 {
		return fmt.Errorf("tracking code too long, max 100 characters")
	}
	return nil
}
