package types

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a field value the core refuses to accept.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateDate checks a calendar-date key against DateFormat.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", date)}
	}
	return nil
}

// ValidateHours rejects values outside the 0-24 range. field names the
// offending log field in the error.
func ValidateHours(field string, hours float64) error {
	if hours < 0 || hours > 24 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%v is outside 0-24", hours)}
	}
	return nil
}

// ValidateAmount rejects non-positive expense amounts.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("%v is not positive", amount)}
	}
	return nil
}

// ValidateHabitName rejects blank habit names.
func ValidateHabitName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	return nil
}
