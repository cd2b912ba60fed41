package vault

import (
	"fmt"
	"math"
	"time"
)

const (
	// DateLayout is the calendar-date encoding used throughout the vault.
	DateLayout = "2006-01-02"

	// PermanentDate is the sentinel renewal date for PERMANENT
	// subscriptions: they never renew.
	PermanentDate = "9999-12-31"
)

// NextRenewal computes the next billing date from the cycle anchor.
// This is the single source of truth for Subscription.RenewalDate;
// caller-supplied values are always overwritten by it.
//
// Month and year arithmetic clamps to the last day of the target
// month, so 2024-01-31 plus one month is 2024-02-29.
func NextRenewal(startDate string, amount int, unit FrequencyUnit) (string, error) {
	if unit == Permanent {
		return PermanentDate, nil
	}
	if amount < 1 {
		return "", fmt.Errorf("%w: frequency amount must be at least 1", ErrInvalid)
	}

	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("%w: start date %q is not a valid %s date", ErrInvalid, startDate, DateLayout)
	}

	var next time.Time
	switch unit {
	case Days:
		next = start.AddDate(0, 0, amount)
	case Weeks:
		next = start.AddDate(0, 0, amount*7)
	case Months:
		next = addMonthsClamped(start, amount)
	case Years:
		next = addMonthsClamped(start, amount*12)
	default:
		return "", fmt.Errorf("%w: unknown frequency unit %q", ErrInvalid, unit)
	}

	return next.Format(DateLayout), nil
}

// addMonthsClamped adds months without day overflow: the day of month
// is clamped to the length of the target month instead of spilling
// into the following one (as time.AddDate would).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) - 1 + months
	year += m / 12
	m = m % 12
	if m < 0 {
		m += 12
		year--
	}
	target := time.Month(m + 1)

	if last := daysInMonth(year, target); day > last {
		day = last
	}
	return time.Date(year, target, day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysRemaining returns the number of whole days until the renewal
// date, rounded up. infinite is true for the permanent sentinel.
// The result is negative for dates in the past.
func DaysRemaining(renewalDate string, now time.Time) (days int, infinite bool, err error) {
	if renewalDate == PermanentDate {
		return 0, true, nil
	}
	renewal, err := time.Parse(DateLayout, renewalDate)
	if err != nil {
		return 0, false, fmt.Errorf("%w: renewal date %q is not a valid %s date", ErrInvalid, renewalDate, DateLayout)
	}
	diff := renewal.Sub(now.UTC())
	return int(math.Ceil(diff.Hours() / 24)), false, nil
}

// CycleProgress returns how far through the current billing cycle now
// is, as a percentage clamped to [0,100]. The permanent sentinel maps
// to 100.
func CycleProgress(startDate, renewalDate string, now time.Time) (float64, error) {
	if renewalDate == PermanentDate {
		return 100, nil
	}
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("%w: start date %q is not a valid %s date", ErrInvalid, startDate, DateLayout)
	}
	renewal, err := time.Parse(DateLayout, renewalDate)
	if err != nil {
		return 0, fmt.Errorf("%w: renewal date %q is not a valid %s date", ErrInvalid, renewalDate, DateLayout)
	}

	total := renewal.Sub(start)
	if total <= 0 {
		return 100, nil
	}
	elapsed := now.UTC().Sub(start)
	progress := float64(elapsed) / float64(total) * 100
	return math.Min(100, math.Max(0, progress)), nil
}
