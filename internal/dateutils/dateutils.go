// Package dateutils provides billing-month helpers shared by the billing and
// reconciliation packages.
package dateutils

import (
	"fmt"
	"time"
)

// BillingMonth identifies one calendar month of the recurring billing cycle.
type BillingMonth struct {
	Year  int
	Month time.Month
}

// CurrentMonth returns the billing month containing the given instant.
func CurrentMonth(now time.Time) BillingMonth {
	return BillingMonth{Year: now.Year(), Month: now.Month()}
}

// Display renders the month in the MM/YY form used in messages, e.g. "08/25".
func (m BillingMonth) Display() string {
	return fmt.Sprintf("%02d/%02d", int(m.Month), m.Year%100)
}

// RefKey renders the month in the MM_YY form embedded in external references,
// e.g. "08_25".
func (m BillingMonth) RefKey() string {
	return fmt.Sprintf("%02d_%02d", int(m.Month), m.Year%100)
}

// Contains reports whether the given instant falls inside the billing month.
func (m BillingMonth) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}
